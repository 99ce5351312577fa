package sitesage_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/quietriver/sitesage"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()
		err := sitesage.Errorf(sitesage.EINVALID, "query required")
		assert.Equal(t, sitesage.EINVALID, sitesage.ErrorCode(err))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", sitesage.ErrorCode(nil))
	})

	t.Run("returns EINTERNAL for non-application error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, sitesage.EINTERNAL, sitesage.ErrorCode(errors.New("boom")))
	})

	t.Run("unwraps wrapped application error", func(t *testing.T) {
		t.Parallel()
		inner := sitesage.Errorf(sitesage.ENOTFOUND, "index not built")
		wrapped := fmt.Errorf("search: %w", inner)
		assert.Equal(t, sitesage.ENOTFOUND, sitesage.ErrorCode(wrapped))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message for application error", func(t *testing.T) {
		t.Parallel()
		err := sitesage.Errorf(sitesage.ECONFLICT, "an index build is already in progress")
		assert.Equal(t, "an index build is already in progress", sitesage.ErrorMessage(err))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", sitesage.ErrorMessage(nil))
	})

	t.Run("returns generic message for non-application error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", sitesage.ErrorMessage(errors.New("boom")))
	})
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	err := sitesage.Errorf(sitesage.EINVALID, "site tag required")
	assert.Equal(t, "sitesage error: code=invalid message=site tag required", err.Error())
}
