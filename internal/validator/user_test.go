package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	require.NoError(t, ValidatePhone("+5511998765432"))
	require.NoError(t, ValidatePhone("5511998765432"))

	require.Error(t, ValidatePhone(""))
	require.Error(t, ValidatePhone("0123456"))
	require.Error(t, ValidatePhone("+55 11 99876-5432"))
	require.Error(t, ValidatePhone("abc"))
}

func TestValidateNotificationTime(t *testing.T) {
	for _, ok := range []string{"00:00", "08:00", "22:59", "23:59"} {
		require.NoError(t, ValidateNotificationTime(ok), ok)
	}
	// 必须严格两位
	for _, bad := range []string{"8:00", "24:00", "12:60", "12h00", "", "12:0"} {
		require.Error(t, ValidateNotificationTime(bad), bad)
	}
}

func TestValidateRole(t *testing.T) {
	for _, ok := range []string{"contact", "subscriber", "assisted", "attendant"} {
		require.NoError(t, ValidateRole(ok), ok)
	}
	require.Error(t, ValidateRole("admin"))
	require.Error(t, ValidateRole(""))
}

func TestValidateExperienceLevel(t *testing.T) {
	for _, ok := range []string{"junior", "pleno", "senior", "especialista"} {
		require.NoError(t, ValidateExperienceLevel(ok), ok)
	}
	require.Error(t, ValidateExperienceLevel("expert"))
}

func TestValidateReceiptType(t *testing.T) {
	require.NoError(t, ValidateReceiptType(1))
	require.NoError(t, ValidateReceiptType(2))
	require.NoError(t, ValidateReceiptType(3))
	require.Error(t, ValidateReceiptType(0))
	require.Error(t, ValidateReceiptType(4))
}

func TestValidationErrorClassification(t *testing.T) {
	err := ValidateRole("admin")
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
}
