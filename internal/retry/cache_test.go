package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alan/ci-bot/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_FetchMemoizes(t *testing.T) {
	lister := &fakeLister{runs: []github.WorkflowRun{run(1, "backend-ci", "completed", "failure")}}
	cache := NewCache(lister, time.Second)

	first, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, "abc1234def", lister.gotSHA)
}

func TestCache_Invalidate(t *testing.T) {
	lister := &fakeLister{runs: []github.WorkflowRun{run(1, "backend-ci", "completed", "failure")}}
	cache := NewCache(lister, time.Second)

	_, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)

	assert.Equal(t, 2, lister.calls)
}

func TestCache_DifferentHeadRequeries(t *testing.T) {
	lister := &fakeLister{}
	cache := NewCache(lister, time.Second)

	pr := testPR()
	_, err := cache.Fetch(context.Background(), pr)
	require.NoError(t, err)

	pr.HeadSHA = "fff0000"
	_, err = cache.Fetch(context.Background(), pr)
	require.NoError(t, err)

	assert.Equal(t, 2, lister.calls)
	assert.Equal(t, "fff0000", lister.gotSHA)
}

func TestCache_EmptyIsNotError(t *testing.T) {
	cache := NewCache(&fakeLister{}, time.Second)

	runs, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestCache_ReturnsCopy(t *testing.T) {
	lister := &fakeLister{runs: []github.WorkflowRun{run(1, "backend-ci", "completed", "failure")}}
	cache := NewCache(lister, time.Second)

	runs, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	runs[0].Name = "mutated"

	again, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	assert.Equal(t, "backend-ci", again[0].Name)
}

func TestCache_TransientFailureReattemptedOnce(t *testing.T) {
	lister := &fakeLister{
		runs: []github.WorkflowRun{run(1, "backend-ci", "completed", "success")},
		errs: []error{errTransient},
	}
	cache := NewCache(lister, time.Second)

	runs, err := cache.Fetch(context.Background(), testPR())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, 2, lister.calls)
}

func TestCache_FetchError(t *testing.T) {
	tests := []struct {
		name         string
		errs         []error
		wantCalls    int
		wantGuidance string
	}{
		{
			name:         "transient after re-attempt",
			errs:         []error{errTransient, errTransient},
			wantCalls:    2,
			wantGuidance: "try the command again",
		},
		{
			name:         "permanent",
			errs:         []error{errPermanent},
			wantCalls:    1,
			wantGuidance: "Check that the bot token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{errs: tt.errs}
			cache := NewCache(lister, time.Second)

			runs, err := cache.Fetch(context.Background(), testPR())
			assert.Nil(t, runs)

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "abc1234def", fetchErr.SHA)
			assert.Contains(t, fetchErr.Guidance(), tt.wantGuidance)
			assert.Contains(t, err.Error(), "failed to fetch workflow runs for commit abc1234def")
			assert.Equal(t, tt.wantCalls, lister.calls)

			// a failed fetch is not memoized
			lister.errs = nil
			_, err = cache.Fetch(context.Background(), testPR())
			assert.NoError(t, err)
		})
	}
}
