package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRepositoryMetadata_Validate(t *testing.T) {
	tests := []struct {
		name string
		meta RepositoryMetadata
		want error
	}{
		{"valid", RepositoryMetadata{Name: "widget", CloneURL: "https://github.com/acme/widget.git"}, nil},
		{"empty name", RepositoryMetadata{Name: "  ", CloneURL: "https://github.com/acme/widget.git"}, ErrEmptyName},
		{"missing url", RepositoryMetadata{Name: "widget"}, ErrCloneURLMissing},
		{"no suffix", RepositoryMetadata{Name: "widget", CloneURL: "https://github.com/acme/widget"}, ErrCloneURLSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}

				return
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFilterForks_PreservesOrder(t *testing.T) {
	repos := []RepositoryMetadata{
		{Name: "a"},
		{Name: "b", IsFork: true},
		{Name: "c"},
		{Name: "d", IsFork: true},
	}

	got := FilterForks(repos)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("FilterForks() = %v, want [a c]", got)
	}

	if len(repos) != 4 {
		t.Errorf("input was modified: %v", repos)
	}
}

func TestOutcome_StringRoundTrip(t *testing.T) {
	for o := OutcomeCloned; o <= OutcomeFailed; o++ {
		if got := ParseOutcome(o.String()); got != o {
			t.Errorf("ParseOutcome(%q) = %v, want %v", o.String(), got, o)
		}
	}

	if got := ParseOutcome("bogus"); got != OutcomeUnknown {
		t.Errorf("ParseOutcome(bogus) = %v, want unknown", got)
	}

	if OutcomeUnknown.String() != "unknown" {
		t.Errorf("OutcomeUnknown.String() = %q", OutcomeUnknown.String())
	}
}

func TestOutcome_JSON(t *testing.T) {
	rec := MirrorRecord{Name: "widget", Outcome: OutcomeFastForwarded}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded MirrorRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Outcome != OutcomeFastForwarded {
		t.Errorf("Outcome = %v, want fast-forwarded", decoded.Outcome)
	}
}

func TestSyncResult_Failed(t *testing.T) {
	if (SyncResult{Outcome: OutcomeUnmergeable}).Failed() {
		t.Error("unmergeable must not count as failed")
	}

	if !(SyncResult{Outcome: OutcomeFailed}).Failed() {
		t.Error("failed outcome must count as failed")
	}
}
