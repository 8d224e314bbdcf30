package models

// SubmissionID identifies one submission by the directory holding its files.
type SubmissionID string

func (id SubmissionID) String() string {
	return string(id)
}

// Submissions maps each submission to the concatenation of its file contents.
// Entries are never empty.
type Submissions map[SubmissionID][]byte

// Fingerprints maps each submission to its encoded digest.
type Fingerprints map[SubmissionID]string

type Mode string

const (
	// ModeOneAssignment expects a directory structure like ./studentID/
	ModeOneAssignment Mode = "one-assignment"
	// ModeAllAssignments expects a directory structure like ./assignment/studentID/
	ModeAllAssignments Mode = "all-assignments"
)

func (m Mode) String() string {
	return string(m)
}
