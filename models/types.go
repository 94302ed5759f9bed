// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Storage timestamp layouts. These match the tabular log format the rest of
// the election tooling consumes, so they must not change.
const (
	TimestampFormat = "2006-01-02 15:04:05"
	DateFormat      = "2006-01-02"
)

// Request types

// ScanRequest carries one capture from the fingerprint device integration.
// ErrorCode is the raw vendor code (0 = success).
type ScanRequest struct {
	TemplateBase64 string `json:"template_base64"`
	BMPBase64      string `json:"bmp_base64"`
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	SerialNumber   string `json:"serial_number"`
	ErrorCode      int    `json:"error_code"`
}

type RegisterRequest struct {
	VoterID string `json:"voter_id"`
	Name    string `json:"name"`
}

// VerifyRequest reports the outcome of client-side template matching.
type VerifyRequest struct {
	MatchedVoterID string `json:"matched_voter_id"`
	MatchingScore  int    `json:"matching_score"`
	ErrorCode      int    `json:"error_code"`
}

type CastVoteRequest struct {
	State         string `json:"state"`
	Constituency  string `json:"constituency"`
	CandidateName string `json:"candidate_name"`
	Party         string `json:"party"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

// Response types

type ScanResponse struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	BMPBase64    string `json:"bmp_base64,omitempty"`
}

// ScanPairResponse hands both captured templates back to the client-side
// matcher once the second login scan completes.
type ScanPairResponse struct {
	Template1 string `json:"template1"`
	Template2 string `json:"template2"`
	BMP1      string `json:"bmp1,omitempty"`
	BMP2      string `json:"bmp2,omitempty"`
}

type RegisterResponse struct {
	VoterID      string `json:"voter_id"`
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
}

type VerifyResponse struct {
	VoterID string `json:"voter_id"`
	Name    string `json:"name"`
}

type EnterVotingResponse struct {
	VoterID string `json:"voter_id"`
	Name    string `json:"name"`
}

type CastVoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Domain types

type Voter struct {
	VoterID          string `json:"voter_id"`
	Name             string `json:"name"`
	TemplateBase64   string `json:"template_base64"`
	BMPBase64        string `json:"bmp_base64,omitempty"`
	RegistrationDate string `json:"registration_date"`
}

// AdminVoter is the admin-panel view of a voter. The raw template is not
// exposed there, only whether one is on file.
type AdminVoter struct {
	VoterID          string `json:"voter_id"`
	Name             string `json:"name"`
	HasTemplate      bool   `json:"has_template"`
	RegistrationDate string `json:"registration_date"`
	RegisteredAgo    string `json:"registered_ago,omitempty"`
}

// VoteEvent is one row of the eligibility log. Voted is the literal "yes"
// marker from the log format. Timestamp may be empty on rows written by older
// tooling that only recorded the date.
type VoteEvent struct {
	Date      string `json:"date"`
	VoterID   string `json:"voter_id"`
	Voted     string `json:"voted"`
	Timestamp string `json:"timestamp"`
}

type Ballot struct {
	Date          string `json:"date"`
	VoterID       string `json:"voter_id"`
	Name          string `json:"name"`
	State         string `json:"state"`
	Constituency  string `json:"constituency"`
	CandidateName string `json:"candidate_name"`
	Party         string `json:"party"`
	Timestamp     string `json:"timestamp"`
}

type Candidate struct {
	ID            string `json:"_id"`
	State         string `json:"state"`
	Constituency  string `json:"constituency"`
	Party         string `json:"party"`
	CandidateName string `json:"candidate_name"`
}

// Tally maps constituency -> "Candidate (Party)" -> vote count.
type Tally map[string]map[string]int

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
