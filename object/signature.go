// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"strings"
)

const (
	minTimezoneOffset = -1440
	maxTimezoneOffset = 1440
)

// Signature identifies an author or committer: a display name, an email
// address, and the instant the action happened, expressed as Unix seconds
// plus a timezone offset in minutes (so the legacy exporter can render
// "±HHMM" without reparsing a *time.Location).
type Signature struct {
	Name           string
	Email          string
	Timestamp      int64
	TimezoneOffset int32 // minutes, range [-1440, 1440]
}

// Validate enforces non-empty name, a non-empty email containing '@',
// and an in-range timezone offset.
func (s Signature) Validate() error {
	if s.Name == "" {
		return &ErrInvalidField{Field: "name", Reason: "must not be empty"}
	}
	if s.Email == "" {
		return &ErrInvalidField{Field: "email", Reason: "must not be empty"}
	}
	if !strings.Contains(s.Email, "@") {
		return &ErrInvalidField{Field: "email", Reason: fmt.Sprintf("missing '@': %q", s.Email)}
	}
	if s.TimezoneOffset < minTimezoneOffset || s.TimezoneOffset > maxTimezoneOffset {
		return &ErrInvalidField{Field: "timezone_offset", Reason: fmt.Sprintf("out of range: %d", s.TimezoneOffset)}
	}
	return nil
}

// String renders the legacy git-style signature line:
// "Name <email> <unix-seconds> ±HHMM".
func (s Signature) String() string {
	sign := byte('+')
	offset := s.TimezoneOffset
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%s <%s> %d %c%02d%02d", s.Name, s.Email, s.Timestamp, sign, offset/60, offset%60)
}
