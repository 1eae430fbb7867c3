// Package wire defines the JSON wire format shared by the cronus daemon and
// its clients: the Request/Reply tagged unions and the Job variant they
// carry. Every field name and variant tag here is part of the protocol
// contract and must not change without bumping callers on both sides.
package wire

import (
	"encoding/json"
	"fmt"
)

// JobKind discriminates the three Job variants.
type JobKind string

const (
	JobCommand    JobKind = "Command"
	JobScript     JobKind = "RhaiScript"
	JobScriptFile JobKind = "RhaiScriptFile"
)

// Job is the wire form of a job description. Exactly one of the
// kind-specific field groups is populated, per Kind.
type Job struct {
	Kind JobKind  `json:"kind"`
	Path string   `json:"path,omitempty"` // Command, RhaiScriptFile
	Args []string `json:"args,omitempty"` // Command
	Src  string   `json:"src,omitempty"`  // RhaiScript
}

// NewCommandJob builds the wire form of a Command job.
func NewCommandJob(path string, args []string) Job {
	return Job{Kind: JobCommand, Path: path, Args: args}
}

// NewScriptJob builds the wire form of an inline RhaiScript job.
func NewScriptJob(src string) Job {
	return Job{Kind: JobScript, Src: src}
}

// NewScriptFileJob builds the wire form of a RhaiScriptFile job.
func NewScriptFileJob(path string) Job {
	return Job{Kind: JobScriptFile, Path: path}
}

// Validate checks that a decoded Job carries the fields its Kind requires.
func (j Job) Validate() error {
	switch j.Kind {
	case JobCommand:
		if j.Path == "" {
			return fmt.Errorf("wire: Command job requires path")
		}
	case JobScript:
		if j.Src == "" {
			return fmt.Errorf("wire: RhaiScript job requires src")
		}
	case JobScriptFile:
		if j.Path == "" {
			return fmt.Errorf("wire: RhaiScriptFile job requires path")
		}
	default:
		return fmt.Errorf("wire: unknown job kind %q", j.Kind)
	}
	return nil
}

// JobInfo is the snapshot record returned by ListJobs.
type JobInfo struct {
	ID      string  `json:"id"`
	Cron    string  `json:"cron"`
	LastRun *uint64 `json:"last_run,omitempty"`
	NextRun *uint64 `json:"next_run,omitempty"`
	Job     Job     `json:"job"`
}

// RequestKind discriminates the five Request variants.
type RequestKind string

const (
	ReqAddJob      RequestKind = "AddJob"
	ReqListJobs    RequestKind = "ListJobs"
	ReqDeleteJob   RequestKind = "DeleteJob"
	ReqStopService RequestKind = "StopService"
	ReqPingService RequestKind = "PingService"
)

// Request is the tagged union of every client-to-daemon message.
type Request struct {
	Kind RequestKind `json:"kind"`
	Cron string      `json:"cron,omitempty"` // AddJob
	Job  *Job        `json:"job,omitempty"`  // AddJob
	ID   string      `json:"id,omitempty"`   // DeleteJob
}

// NewAddJobRequest builds an AddJob request.
func NewAddJobRequest(cron string, job Job) Request {
	return Request{Kind: ReqAddJob, Cron: cron, Job: &job}
}

// NewListJobsRequest builds a ListJobs request.
func NewListJobsRequest() Request { return Request{Kind: ReqListJobs} }

// NewDeleteJobRequest builds a DeleteJob request.
func NewDeleteJobRequest(id string) Request { return Request{Kind: ReqDeleteJob, ID: id} }

// NewStopServiceRequest builds a StopService request.
func NewStopServiceRequest() Request { return Request{Kind: ReqStopService} }

// NewPingServiceRequest builds a PingService request.
func NewPingServiceRequest() Request { return Request{Kind: ReqPingService} }

// ReplyKind discriminates the Reply variants.
type ReplyKind string

const (
	RepJobAdded          ReplyKind = "JobAdded"
	RepJobList           ReplyKind = "JobList"
	RepJobDeleted        ReplyKind = "JobDeleted"
	RepServiceRunning    ReplyKind = "ServiceRunning"
	RepServiceStopping   ReplyKind = "ServiceStopping"
	RepServiceStopped    ReplyKind = "ServiceStopped"
	RepServiceNotRunning ReplyKind = "ServiceNotRunning"
	RepNothing           ReplyKind = "Nothing"
	RepError             ReplyKind = "Error"
)

// Error codes carried by a RepError reply, named after the spec's error
// kinds and styled after the teacher's upper-snake error-code constants
// (pkg/protocol/errors.go in the source repo).
const (
	ErrBadCron = "BAD_CRON"
	ErrBadID   = "BAD_ID"
	ErrUnknown = "UNKNOWN_JOB"
	ErrDecode  = "DECODE"
)

// ErrorInfo is the payload of a RepError reply.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Reply is the tagged union of every daemon-to-client message.
type Reply struct {
	Kind  ReplyKind  `json:"kind"`
	ID    string     `json:"id,omitempty"`    // JobAdded
	Jobs  []JobInfo  `json:"jobs,omitempty"`  // JobList
	Error *ErrorInfo `json:"error,omitempty"` // Error
}

// NewJobAddedReply builds a JobAdded reply.
func NewJobAddedReply(id string) Reply { return Reply{Kind: RepJobAdded, ID: id} }

// NewJobListReply builds a JobList reply. A nil slice is encoded as [].
func NewJobListReply(jobs []JobInfo) Reply {
	if jobs == nil {
		jobs = []JobInfo{}
	}
	return Reply{Kind: RepJobList, Jobs: jobs}
}

// NewErrorReply builds a structured Error reply.
func NewErrorReply(kind, message string) Reply {
	return Reply{Kind: RepError, Error: &ErrorInfo{Kind: kind, Message: message}}
}

var (
	ReplyJobDeleted        = Reply{Kind: RepJobDeleted}
	ReplyServiceRunning    = Reply{Kind: RepServiceRunning}
	ReplyServiceStopping   = Reply{Kind: RepServiceStopping}
	ReplyServiceStopped    = Reply{Kind: RepServiceStopped}
	ReplyServiceNotRunning = Reply{Kind: RepServiceNotRunning}
	ReplyNothing           = Reply{Kind: RepNothing}
)

// EncodeRequest serializes a Request to its canonical byte form.
func EncodeRequest(r Request) ([]byte, error) { return json.Marshal(r) }

// DecodeRequest parses a Request from bytes produced by EncodeRequest.
func DecodeRequest(data []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("wire: decode request: %w", err)
	}
	switch r.Kind {
	case ReqAddJob, ReqListJobs, ReqDeleteJob, ReqStopService, ReqPingService:
	default:
		return Request{}, fmt.Errorf("wire: decode request: unknown kind %q", r.Kind)
	}
	return r, nil
}

// EncodeReply serializes a Reply to its canonical byte form.
func EncodeReply(r Reply) ([]byte, error) {
	if r.Kind == RepJobList {
		jobs := r.Jobs
		if jobs == nil {
			jobs = []JobInfo{}
		}
		return json.Marshal(struct {
			Kind ReplyKind `json:"kind"`
			Jobs []JobInfo `json:"jobs"`
		}{r.Kind, jobs})
	}
	return json.Marshal(r)
}

// DecodeReply parses a Reply from bytes produced by EncodeReply.
func DecodeReply(data []byte) (Reply, error) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return Reply{}, fmt.Errorf("wire: decode reply: %w", err)
	}
	return r, nil
}
