package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+79221234567", "+79221234567", false},
		{"89221234567", "+79221234567", false},
		{"79221234567", "+79221234567", false},
		{"9221234567", "+79221234567", false},
		{"8 (922) 123-45-67", "+79221234567", false},
		{"+1 555 0100", "", true},
		{"12345", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ValidatePhoneNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseStartTime(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)

	t.Run("будущая дата в текущем году", func(t *testing.T) {
		got, err := ParseStartTime("15.09 09:00", now, loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 15, 9, 0, 0, 0, loc), got)
	})

	t.Run("прошедшая дата переносится на следующий год", func(t *testing.T) {
		got, err := ParseStartTime("15.01 09:00", now, loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2027, 1, 15, 9, 0, 0, 0, loc), got)
	})

	t.Run("мусор на входе", func(t *testing.T) {
		_, err := ParseStartTime("завтра утром", now, loc)
		assert.Error(t, err)
	})
}

func TestValidatePlaces(t *testing.T) {
	n, err := ValidatePlaces(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	for _, bad := range []string{"0", "-1", "101", "пять", ""} {
		_, err := ValidatePlaces(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+7 (922) 123-45-67", FormatPhoneNumber("+79221234567"))
	assert.Equal(t, "+7 (922) 123-45-67", FormatPhoneNumber("89221234567"))
	assert.Equal(t, "не телефон", FormatPhoneNumber("не телефон"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1600 ₽", FormatMoney(1600))
	assert.Equal(t, "1600.50 ₽", FormatMoney(1600.5))
}
