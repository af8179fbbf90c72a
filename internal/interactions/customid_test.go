package interactions

import "testing"

func TestCustomIDOwner(t *testing.T) {
	tests := []struct {
		name      string
		customID  string
		wantOwner string
		wantOK    bool
	}{
		{name: "owner embedded", customID: "confirm;12345", wantOwner: "12345", wantOK: true},
		{name: "no separator is unrestricted", customID: "confirm", wantOK: false},
		{name: "empty owner segment is unrestricted", customID: "confirm;", wantOK: false},
		{name: "extra segments ignored", customID: "confirm;12345;extra", wantOwner: "12345", wantOK: true},
		{name: "empty custom id", customID: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, ok := CustomIDOwner(tt.customID)
			if ok != tt.wantOK {
				t.Fatalf("CustomIDOwner(%q) ok = %v, want %v", tt.customID, ok, tt.wantOK)
			}
			if owner != tt.wantOwner {
				t.Errorf("CustomIDOwner(%q) = %q, want %q", tt.customID, owner, tt.wantOwner)
			}
		})
	}
}

func TestCustomID_RoundTrip(t *testing.T) {
	customID := CustomID("todo-delete-yes", "67890")

	if got := CustomIDAction(customID); got != "todo-delete-yes" {
		t.Errorf("expected action todo-delete-yes, got %q", got)
	}

	owner, ok := CustomIDOwner(customID)
	if !ok || owner != "67890" {
		t.Errorf("expected owner 67890, got %q (ok=%v)", owner, ok)
	}
}
