package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidClock(t *testing.T) {
	for _, s := range []string{"00:00", "09:00", "17:30", "23:59"} {
		assert.True(t, IsValidClock(s), s)
	}
	for _, s := range []string{"", "9:00", "24:00", "12:60", "0900", "09:00:00", "ab:cd"} {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("UTC"))
	assert.True(t, IsValidTimezone("Asia/Dhaka"))
	assert.False(t, IsValidTimezone(""))
	assert.False(t, IsValidTimezone("Mars/Olympus"))
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2024-01-15T10:30:00Z")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15T10:30:00.123456+06:00")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15 10:30")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"active", "suspended"}
	assert.True(t, IsInSlice("active", slice))
	assert.False(t, IsInSlice("deleted", slice))
	assert.False(t, IsInSlice("", nil))
}

type scheduleForm struct {
	Start    string `json:"work_start_time" validate:"required,clock"`
	Timezone string `json:"timezone" validate:"omitempty,timezone_name"`
	Grace    int    `json:"super_late_threshold_minutes" validate:"gte=0,lte=720"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(scheduleForm{Start: "09:00", Timezone: "Asia/Dhaka", Grace: 30}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Struct(scheduleForm{Start: "9am", Timezone: "Nowhere/City", Grace: 900})
		require.Error(t, err)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		m := errs.ToMap()
		assert.Equal(t, "must be in HH:MM format", m["work_start_time"])
		assert.Equal(t, "must be a valid IANA timezone", m["timezone"])
		assert.Equal(t, "must be less than or equal to 720", m["super_late_threshold_minutes"])
	})

	t.Run("required", func(t *testing.T) {
		err := Struct(scheduleForm{})
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "is required", errs.ToMap()["work_start_time"])
	})
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "role", Message: "is invalid"},
	}
	assert.Equal(t, "name: is required; role: is invalid", errs.Error())
}
