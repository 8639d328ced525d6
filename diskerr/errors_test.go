package diskerr_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danreif/uvfs/diskerr"
)

func TestNewCarriesSentinelErrno(t *testing.T) {
	err := diskerr.New(diskerr.ErrNotFound)
	assert.Equal(t, syscall.ENOENT, err.Errno())
	assert.True(t, errors.Is(err, diskerr.ErrNotFound))
	assert.False(t, errors.Is(err, diskerr.ErrExists))
}

func TestNewfIncludesMessage(t *testing.T) {
	err := diskerr.Newf(diskerr.ErrNameTooLong, "component %q", "averylongname")
	assert.Contains(t, err.Error(), "averylongname")
	assert.True(t, errors.Is(err, diskerr.ErrNameTooLong))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("short read")
	err := diskerr.Wrap(diskerr.ErrIO, cause)
	assert.True(t, errors.Is(err, diskerr.ErrIO))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, syscall.EIO, err.Errno())
}
