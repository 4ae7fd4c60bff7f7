package model

// ProjectKind is the build system detected for a repository.
type ProjectKind string

const (
	ProjectMaven   ProjectKind = "mvn"
	ProjectGradle  ProjectKind = "gradle"
	ProjectUnknown ProjectKind = "N/A"
)

// StatusSuccess is the only healthy repository status. Every other status is an errs.Cause.
const StatusSuccess = "success"

// NotAvailable fills record fields that could not be determined.
const NotAvailable = "N/A"

// NewLineToken separates the lines of an isolated method.
const NewLineToken = "<NEW_LINE>"

// RepoArchivePrefix prefixes the normalized name of a mined repository.
const RepoArchivePrefix = "repo__"
