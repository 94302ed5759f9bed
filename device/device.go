// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package device

import "fmt"

// errorMessages maps SecuGen vendor error codes to operator-readable text.
// The codes themselves are a device-vendor contract; only the dispatch to a
// message lives here.
var errorMessages = map[int]string{
	3:  "Failure to reach SecuGen Fingerprint Scanner",
	51: "System file load failure",
	52: "Sensor chip initialization failed",
	53: "Device not found",
	54: "Fingerprint image capture timeout",
	55: "No device available",
	56: "Driver load failed",
	57: "Wrong Image",
	58: "Lack of bandwidth",
	59: "Device Busy",
	60: "Cannot get serial number of the device",
	61: "Unsupported device",
	63: "SgiBioSrv didn't start; Try image capture again",
}

const unknownMessage = "Unknown error code or Update code to reflect latest result"

// Translate returns the human-readable description for a vendor error code.
// Unknown codes get a generic message rather than an error.
func Translate(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return unknownMessage
}

// Error is a capture or matching failure reported by the device integration.
type Error struct {
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("device error %d: %s", e.Code, Translate(e.Code))
}

// Message returns the translated description without the code prefix.
func (e *Error) Message() string {
	return Translate(e.Code)
}

// Capture is one fingerprint acquisition from the external device, as handed
// to the server by the client-side integration.
type Capture struct {
	TemplateBase64 string
	BMPBase64      string
	Manufacturer   string
	Model          string
	SerialNumber   string
	ErrorCode      int
}

// Err returns a *Error when the device reported a failure code, nil otherwise.
func (c *Capture) Err() error {
	if c.ErrorCode > 0 {
		return &Error{Code: c.ErrorCode}
	}
	return nil
}
