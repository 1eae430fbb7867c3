package wire

import "testing"

func TestRequestRoundTrip(t *testing.T) {
	cases := []Request{
		NewAddJobRequest("*/5 * * * * *", NewCommandJob("/bin/true", []string{"-x"})),
		NewListJobsRequest(),
		NewDeleteJobRequest("3fa85f64-5717-4562-b3fc-2c963f66afa6"),
		NewStopServiceRequest(),
		NewPingServiceRequest(),
	}
	for _, want := range cases {
		data, err := EncodeRequest(want)
		if err != nil {
			t.Fatalf("encode %v: %v", want.Kind, err)
		}
		got, err := DecodeRequest(data)
		if err != nil {
			t.Fatalf("decode %v: %v", want.Kind, err)
		}
		if got.Kind != want.Kind || got.Cron != want.Cron || got.ID != want.ID {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
		}
		if (got.Job == nil) != (want.Job == nil) {
			t.Fatalf("job pointer presence mismatch for %v", want.Kind)
		}
	}
}

func TestReplyRoundTrip(t *testing.T) {
	cases := []Reply{
		NewJobAddedReply("abc-123"),
		NewJobListReply([]JobInfo{{ID: "x", Cron: "* * * * * *", Job: NewCommandJob("/bin/true", nil)}}),
		ReplyJobDeleted,
		ReplyServiceRunning,
		ReplyServiceStopping,
		ReplyServiceStopped,
		ReplyServiceNotRunning,
		ReplyNothing,
		NewErrorReply(ErrBadCron, "bad expression"),
	}
	for _, want := range cases {
		data, err := EncodeReply(want)
		if err != nil {
			t.Fatalf("encode %v: %v", want.Kind, err)
		}
		got, err := DecodeReply(data)
		if err != nil {
			t.Fatalf("decode %v: %v", want.Kind, err)
		}
		if got.Kind != want.Kind {
			t.Fatalf("kind mismatch: got %q, want %q", got.Kind, want.Kind)
		}
		if want.Error != nil {
			if got.Error == nil || *got.Error != *want.Error {
				t.Fatalf("error payload mismatch: got %+v, want %+v", got.Error, want.Error)
			}
		}
	}
}

func TestJobListReplyNeverEncodesNull(t *testing.T) {
	data, err := EncodeReply(NewJobListReply(nil))
	if err != nil {
		t.Fatal(err)
	}
	reply, err := DecodeReply(data)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Jobs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(reply.Jobs) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(reply.Jobs))
	}
}

func TestJobValidate(t *testing.T) {
	valid := []Job{
		NewCommandJob("/bin/echo", []string{"hi"}),
		NewScriptJob("print(1)"),
		NewScriptFileJob("/tmp/x.rhai"),
	}
	for _, j := range valid {
		if err := j.Validate(); err != nil {
			t.Fatalf("expected %v to be valid: %v", j.Kind, err)
		}
	}

	invalid := []Job{
		{Kind: JobCommand},
		{Kind: JobScript},
		{Kind: JobScriptFile},
		{Kind: "Bogus"},
	}
	for _, j := range invalid {
		if err := j.Validate(); err == nil {
			t.Fatalf("expected %v to be invalid", j.Kind)
		}
	}
}

func TestDecodeRequestRejectsUnknownKind(t *testing.T) {
	if _, err := DecodeRequest([]byte(`{"kind":"DoSomethingElse"}`)); err == nil {
		t.Fatal("expected error for unknown request kind")
	}
}
