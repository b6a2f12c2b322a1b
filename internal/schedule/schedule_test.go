package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/psiazon/clinical-triage/internal/triage"
)

// stubAPI records incoming scheduling calls and serves canned confirmations.
type stubAPI struct {
	mu       sync.Mutex
	paths    []string
	requests []Request

	failPath   string
	failStatus int
	failBody   string
}

func (s *stubAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}

		s.mu.Lock()
		s.paths = append(s.paths, r.URL.Path)
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		if s.failPath != "" && r.URL.Path == s.failPath {
			w.WriteHeader(s.failStatus)
			w.Write([]byte(s.failBody))
			return
		}

		conf := Confirmation{
			TestType:           testTypeForPath(r.URL.Path),
			Patient:            req.PatientName,
			Urgency:            req.Urgency,
			Reason:             req.Reason,
			AppointmentTimeUTC: time.Now().UTC().Add(2 * time.Hour),
			ConfirmationID:     "BD-123456",
		}
		json.NewEncoder(w).Encode(conf)
	})
}

func testTypeForPath(path string) TestType {
	for tt, p := range endpointPaths {
		if p == path {
			return tt
		}
	}
	return ""
}

func urgentDecision(bloodDraw, xray, mri bool) *triage.Decision {
	return &triage.Decision{
		Urgency:       triage.UrgencyUrgent,
		UrgencyReason: "possible fracture with vascular compromise",
		Tests: triage.TestSelection{
			BloodDraw: bloodDraw,
			XRay:      xray,
			MRI:       mri,
			Notes:     "imaging first",
		},
	}
}

func TestDispatch_NonUrgentSkipsEverything(t *testing.T) {
	stub := &stubAPI{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	// Flags deliberately true: the dispatch step must not trust them.
	decision := &triage.Decision{
		Urgency: triage.UrgencyNonUrgent,
		Tests:   triage.TestSelection{BloodDraw: true, XRay: true, MRI: true},
	}

	outcome, err := Dispatch(context.Background(), NewClient(server.URL), decision, "Jane Doe", "note")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(outcome.Scheduled) != 0 {
		t.Errorf("scheduled: got %d entries, want 0", len(outcome.Scheduled))
	}
	if len(outcome.Skipped) != 1 {
		t.Fatalf("skipped: got %d entries, want 1", len(outcome.Skipped))
	}
	if !strings.Contains(outcome.Skipped[0].Reason, "non_urgent") {
		t.Errorf("skip reason should name the urgency: %q", outcome.Skipped[0].Reason)
	}
	if len(stub.paths) != 0 {
		t.Errorf("stub received %d calls, want 0: %v", len(stub.paths), stub.paths)
	}
}

func TestDispatch_UrgentSelectedSubset(t *testing.T) {
	stub := &stubAPI{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	outcome, err := Dispatch(context.Background(), NewClient(server.URL),
		urgentDecision(true, false, true), "Jane Doe", "fell off a ladder")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(outcome.Scheduled) != 2 {
		t.Errorf("scheduled: got %d, want 2", len(outcome.Scheduled))
	}
	if len(outcome.Skipped) != 1 {
		t.Fatalf("skipped: got %d, want 1", len(outcome.Skipped))
	}
	if outcome.Skipped[0].TestType != TestXRay {
		t.Errorf("skipped test: got %q, want %q", outcome.Skipped[0].TestType, TestXRay)
	}
	if outcome.Skipped[0].Reason != skipNotSelected {
		t.Errorf("skip reason: got %q", outcome.Skipped[0].Reason)
	}

	// Exactly two calls, in fixed order: blood draw then MRI.
	want := []string{"/schedule/blooddraw", "/schedule/mri"}
	if len(stub.paths) != len(want) {
		t.Fatalf("stub calls: got %v, want %v", stub.paths, want)
	}
	for i := range want {
		if stub.paths[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, stub.paths[i], want[i])
		}
	}

	for _, req := range stub.requests {
		if req.PatientName != "Jane Doe" {
			t.Errorf("patientName: got %q", req.PatientName)
		}
		if req.Urgency != triage.UrgencyUrgent {
			t.Errorf("urgency: got %q", req.Urgency)
		}
		if !strings.Contains(req.Reason, "vascular compromise") {
			t.Errorf("reason missing urgency rationale: %q", req.Reason)
		}
		if !strings.Contains(req.Reason, "fell off a ladder") {
			t.Errorf("reason missing clinical note excerpt: %q", req.Reason)
		}
	}
}

func TestDispatch_FirstFailureAbortsRemaining(t *testing.T) {
	stub := &stubAPI{
		failPath:   "/schedule/blooddraw",
		failStatus: http.StatusInternalServerError,
		failBody:   `{"error":"boom"}`,
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	_, err := Dispatch(context.Background(), NewClient(server.URL),
		urgentDecision(true, true, true), "Jane Doe", "note")
	if err == nil {
		t.Fatal("expected error")
	}

	// Only the failing call was made; x-ray and MRI never attempted.
	if len(stub.paths) != 1 || stub.paths[0] != "/schedule/blooddraw" {
		t.Errorf("stub calls: got %v, want only /schedule/blooddraw", stub.paths)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError in chain, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code: got %d", statusErr.StatusCode)
	}
	if statusErr.Path != "/schedule/blooddraw" {
		t.Errorf("path: got %q", statusErr.Path)
	}
	if !strings.Contains(statusErr.Body, "boom") {
		t.Errorf("body: got %q", statusErr.Body)
	}
}

func TestDispatch_ValidationFailureSurfaced(t *testing.T) {
	stub := &stubAPI{
		failPath:   "/schedule/xray",
		failStatus: http.StatusBadRequest,
		failBody:   `{"error":"PatientName is required"}`,
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	_, err := Dispatch(context.Background(), NewClient(server.URL),
		urgentDecision(false, true, false), "", "note")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"400", "/schedule/xray", "PatientName is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestComposeReason_Truncation(t *testing.T) {
	longNote := strings.Repeat("a", 300)
	decision := urgentDecision(true, false, false)

	reason := composeReason(decision, longNote)

	idx := strings.Index(reason, "Note: ")
	if idx == -1 {
		t.Fatalf("reason missing note section: %q", reason)
	}
	excerpt := reason[idx+len("Note: "):]
	if len(excerpt) != 243 {
		t.Errorf("excerpt length: got %d, want 243 (240 chars + ellipsis)", len(excerpt))
	}
	if !strings.HasSuffix(excerpt, "...") {
		t.Errorf("excerpt should end with ellipsis: %q", excerpt)
	}
	if excerpt[:240] != longNote[:240] {
		t.Error("excerpt should be the first 240 characters of the note")
	}
}

func TestComposeReason_ShortNoteUntouched(t *testing.T) {
	decision := urgentDecision(true, false, false)
	reason := composeReason(decision, "short note")

	if !strings.Contains(reason, "Note: short note") {
		t.Errorf("short note should be embedded verbatim: %q", reason)
	}
	if strings.Contains(reason, "...") {
		t.Errorf("no ellipsis expected for short note: %q", reason)
	}
}

func TestTruncateNote_ExactBoundary(t *testing.T) {
	exact := strings.Repeat("x", 240)
	if got := truncateNote(exact, 240); got != exact {
		t.Errorf("240-char note should be untouched, got %d chars", len(got))
	}
	over := strings.Repeat("x", 241)
	got := truncateNote(over, 240)
	if len(got) != 243 {
		t.Errorf("241-char note: got %d chars, want 243", len(got))
	}
}

func TestTruncateNote_MultiByteRunes(t *testing.T) {
	// 200 two-byte runes is 400 bytes but only 200 characters: under the
	// cap, so no truncation.
	under := strings.Repeat("é", 200)
	if got := truncateNote(under, 240); got != under {
		t.Errorf("200-rune note should be untouched, got %q", got)
	}

	// Over the cap: keep exactly 240 characters, never split a rune.
	over := "a" + strings.Repeat("é", 300)
	got := truncateNote(over, 240)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	kept := strings.TrimSuffix(got, "...")
	if n := utf8.RuneCountInString(kept); n != 240 {
		t.Errorf("kept prefix: got %d characters, want 240", n)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated note is not valid UTF-8: %q", got)
	}
	if want := string([]rune(over)[:240]); kept != want {
		t.Error("kept prefix should be the first 240 characters of the note")
	}
}

func TestConfirmation_RoundTrip(t *testing.T) {
	orig := Confirmation{
		TestType:           TestMRI,
		Patient:            "Jane Doe",
		Urgency:            "urgent",
		Reason:             "suspected disc herniation",
		BodyPart:           "lumbar spine",
		AppointmentTimeUTC: time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
		ConfirmationID:     "MRI-042137",
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Confirmation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back != orig {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}
