// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package verify

import "errors"

// ErrCaptureMissing is returned when a scan step runs without the capture(s)
// it depends on.
var ErrCaptureMissing = errors.New("fingerprint capture missing")

// ScanSession is the two-slot accumulator for the two-step login capture.
// It is scoped to one in-flight login attempt and never shared across
// sessions.
type ScanSession struct {
	template1 string
	template2 string
	image1    string
	image2    string
}

func (s *ScanSession) recordFirst(template, image string) error {
	if template == "" {
		return ErrCaptureMissing
	}
	s.template1 = template
	s.image1 = image
	// A fresh first scan restarts the attempt; drop any stale second capture.
	s.template2 = ""
	s.image2 = ""
	return nil
}

func (s *ScanSession) recordSecond(template, image string) error {
	if s.template1 == "" || template == "" {
		return ErrCaptureMissing
	}
	s.template2 = template
	s.image2 = image
	return nil
}

// Snapshot returns both captures for hand-off to the external matcher.
func (s *ScanSession) Snapshot() (template1, template2, image1, image2 string, err error) {
	if s.template1 == "" || s.template2 == "" {
		return "", "", "", "", ErrCaptureMissing
	}
	return s.template1, s.template2, s.image1, s.image2, nil
}

func (s *ScanSession) clear() {
	*s = ScanSession{}
}
