package userservice

import (
	"strings"
	"testing"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		username string
		valid    bool
	}{
		{username: "", valid: false},
		{username: "ab", valid: false},
		{username: "abc", valid: true},
		{username: "valid123", valid: true},
		{username: "invalid!", valid: false},
		{username: "invalid username", valid: false},
		{username: "invalid_username", valid: false},
		{username: "abcdefghijklmnopqrstuvwxyz", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.username, func(t *testing.T) {
			v := common.NewValidator()
			validateUsername(v, tc.username)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{email: "", valid: false},
		{email: "a@", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.co", valid: true},
		{email: "first.last+tag@example.com", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "short", valid: false},
		{name: "minimum", password: "12345678", valid: true},
		{name: "bcrypt limit", password: strings.Repeat("a", 72), valid: true},
		{name: "over bcrypt limit", password: strings.Repeat("a", 73), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	v := common.NewValidator()
	validateToken(v, strings.Repeat("A", tokenLength))
	if !v.Valid() {
		t.Errorf("expected token of length %d to be valid", tokenLength)
	}

	v = common.NewValidator()
	validateToken(v, "short")
	if v.Valid() {
		t.Error("expected short token to be invalid")
	}
}
