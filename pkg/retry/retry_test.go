package retry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type recordingSleeper struct {
	slept []time.Duration
}

func (r *recordingSleeper) Sleep(d time.Duration) { r.slept = append(r.slept, d) }

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	attempts, err := Retry(func() error { return nil }, Limit(3))
	assert.NoError(t, err)
	assert.EqualValues(t, 1, attempts)
}

func TestRetryLimit(t *testing.T) {
	errTest := errors.New("test")

	var calls int
	attempts, err := Retry(func() error {
		calls++
		return errTest
	}, Limit(3))

	assert.Equal(t, errTest, err)
	assert.EqualValues(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestRetriableErrors(t *testing.T) {
	errRetriable := errors.New("retriable")
	errFatal := errors.New("fatal")

	var calls int
	_, err := Retry(func() error {
		calls++
		if calls == 1 {
			return errRetriable
		}
		return errFatal
	}, RetriableErrors(errRetriable), Limit(10))

	assert.Equal(t, errFatal, err)
	assert.Equal(t, 2, calls)
}

func TestNonRetriableErrors(t *testing.T) {
	errFatal := errors.New("fatal")

	var calls int
	_, err := Retry(func() error {
		calls++
		return errFatal
	}, NonRetriableErrors(errFatal), Limit(10))

	assert.Equal(t, errFatal, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffCapped(t *testing.T) {
	s := &recordingSleeper{}
	prev := sleeperImpl
	sleeperImpl = s
	defer func() { sleeperImpl = prev }()

	errTest := errors.New("test")
	_, err := Retry(func() error { return errTest },
		Limit(5),
		Backoff(func(attempts uint) time.Duration {
			return time.Duration(attempts) * time.Second
		}, 2*time.Second),
	)

	assert.Equal(t, errTest, err)
	assert.Equal(t, []time.Duration{
		time.Second,
		2 * time.Second,
		2 * time.Second,
		2 * time.Second,
	}, s.slept)
}
