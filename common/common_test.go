package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	errTestOne = errors.New("test one")
	errTestTwo = errors.New("test two")
)

func TestAppendError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, AppendError(nil, nil))
	assert.ErrorIs(t, AppendError(nil, errTestOne), errTestOne)
	assert.ErrorIs(t, AppendError(errTestOne, nil), errTestOne)

	err := AppendError(errTestOne, errTestTwo)
	assert.ErrorIs(t, err, errTestOne)
	assert.ErrorIs(t, err, errTestTwo)
	assert.Equal(t, "test one, test two", err.Error())

	err = AppendError(err, ErrNilPointer)
	var errs Errors
	assert.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
	assert.Empty(t, Errors{}.Error())
}

func TestStartEndTimeCheck(t *testing.T) {
	t.Parallel()
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, StartEndTimeCheck(time.Time{}, now), ErrDateUnset)
	assert.ErrorIs(t, StartEndTimeCheck(now, time.Time{}), ErrDateUnset)
	assert.ErrorIs(t, StartEndTimeCheck(now.Add(time.Hour), now), ErrStartAfterEnd)
	assert.ErrorIs(t, StartEndTimeCheck(now, now), ErrStartEqualsEnd)
	assert.NoError(t, StartEndTimeCheck(now, now.Add(time.Hour)))
}
