package distill_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/akowalsk/distill"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code of application error", func(t *testing.T) {
		t.Parallel()

		err := distill.Errorf(distill.EINVALID, "bad input")

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("unwraps wrapped application errors", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("context: %w", distill.Errorf(distill.ENOTFOUND, "missing"))

		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, distill.EINTERNAL, distill.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", distill.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns formatted message", func(t *testing.T) {
		t.Parallel()

		err := distill.Errorf(distill.EINVALID, "field %q required", "url")

		assert.Equal(t, `field "url" required`, distill.ErrorMessage(err))
	})

	t.Run("hides details of non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", distill.ErrorMessage(errors.New("secret detail")))
	})
}
