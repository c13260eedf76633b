package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	testCases := []struct {
		name        string
		number      int
		size        int
		want        Page
		expectedErr error
	}{
		{name: "default size", number: 1, size: 0, want: Page{Number: 1, Size: 100}},
		{name: "explicit size", number: 3, size: 20, want: Page{Number: 3, Size: 20}},
		{name: "zero page", number: 0, size: 10, expectedErr: ValidationError{Errors: map[string]string{"page": "must be greater than zero"}}},
		{name: "size too large", number: 1, size: 101, expectedErr: ValidationError{Errors: map[string]string{"page_size": "must be between 1 and 100"}}},
		{name: "negative size", number: 1, size: -1, expectedErr: ValidationError{Errors: map[string]string{"page_size": "must be between 1 and 100"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPage(tc.number, tc.size)
			assert.Equal(t, tc.expectedErr, err)
			if tc.expectedErr == nil {
				assert.Equal(t, tc.want, p)
			}
		})
	}
}

func TestPageLimitOffset(t *testing.T) {
	p, err := NewPage(2, 100)
	require.NoError(t, err)

	assert.Equal(t, 100, p.Limit())
	assert.Equal(t, 100, p.Offset())
}

func TestTrim(t *testing.T) {
	p := Page{Number: 1, Size: 2}

	items, md := Trim(p, []int{1, 2, 3})
	assert.Equal(t, []int{1, 2}, items)
	assert.True(t, md.HasNext)

	items, md = Trim(p, []int{1})
	assert.Equal(t, []int{1}, items)
	assert.False(t, md.HasNext)
	assert.Equal(t, Metadata{Page: 1, PageSize: 2}, md)
}
