package album

import (
	"fmt"
	"testing"
	"time"

	"github.com/calefrey/telegram-bot/internal/session"
)

var testNow = time.Date(2025, 8, 30, 14, 5, 9, 0, time.Local)

func TestAssignFilenameCaptionedBurst(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	got := AssignFilename(sess, "g1", "Fluffy", "CF", testNow)
	if got != "Fluffy.png" {
		t.Fatalf("first photo: got %q, want Fluffy.png", got)
	}
	if sess.PhotoIndex != 1 || sess.ActiveGroupID != "g1" || sess.CaptionBase != "Fluffy" {
		t.Fatalf("unexpected session after first photo: %+v", sess)
	}

	for i := 2; i <= 5; i++ {
		got = AssignFilename(sess, "g1", "", "CF", testNow)
		want := fmt.Sprintf("Fluffy-%d.png", i)
		if got != want {
			t.Fatalf("photo %d: got %q, want %q", i, got, want)
		}
	}
}

func TestAssignFilenameGeneratedBase(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	first := AssignFilename(sess, "g7", "", "CF", testNow)
	want := "CF-20250830-140509.png"
	if first != want {
		t.Fatalf("generated base: got %q, want %q", first, want)
	}
	second := AssignFilename(sess, "g7", "", "CF", testNow)
	if second != "CF-20250830-140509-2.png" {
		t.Fatalf("second photo: got %q", second)
	}
}

func TestAssignFilenameNewTokenStartsNewBurst(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	AssignFilename(sess, "a", "First", "CF", testNow)
	AssignFilename(sess, "a", "", "CF", testNow)

	got := AssignFilename(sess, "b", "Second", "CF", testNow)
	if got != "Second.png" {
		t.Fatalf("new token: got %q, want Second.png", got)
	}
	if sess.PhotoIndex != 1 {
		t.Fatalf("photo index not reset: %d", sess.PhotoIndex)
	}
}

func TestAssignFilenameNoTokenAlwaysNewBurst(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	a := AssignFilename(sess, "", "One", "CF", testNow)
	b := AssignFilename(sess, "", "Two", "CF", testNow)
	if a != "One.png" || b != "Two.png" {
		t.Fatalf("tokenless photos should each start a burst: %q, %q", a, b)
	}
	if sess.PhotoIndex != 1 {
		t.Fatalf("photo index should stay at 1, got %d", sess.PhotoIndex)
	}
}

func TestAssignFilenameNeverRepeatsWithinBurst(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		name := AssignFilename(sess, "same", "Base", "CF", testNow)
		if seen[name] {
			t.Fatalf("filename %q repeated within one burst", name)
		}
		seen[name] = true
	}
}

func TestAssignFilenameAfterBurstReset(t *testing.T) {
	sess := &session.Session{State: session.StateAwaitingUpload}

	AssignFilename(sess, "tok", "Old", "CF", testNow)
	AssignFilename(sess, "tok", "", "CF", testNow)

	// Cancel discards the burst context; the same token must then open a
	// brand-new burst.
	sess.ActiveGroupID = ""
	sess.CaptionBase = ""
	sess.PhotoIndex = 0

	got := AssignFilename(sess, "tok", "Fresh", "CF", testNow)
	if got != "Fresh.png" {
		t.Fatalf("reused token after reset: got %q, want Fresh.png", got)
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Caleb", "Frey", "CF"},
		{"Caleb", "", "C"},
		{"", "", ""},
		{" Ana", "Ørsted", "AØ"},
	}
	for _, tc := range cases {
		if got := Initials(tc.first, tc.last); got != tc.want {
			t.Errorf("Initials(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
