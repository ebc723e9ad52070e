package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hockeytrainer/videoclient/internal/console"
)

const sampleBody = `{"analysis":{"ball_tracking":{"max_speed_kmh":42.37,"detections_count":5},"action_recognition":{"actions_detected":["shot","pass"]}},"note":"partial model"}`

func renderString(t *testing.T, raw string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := Render(console.NewPrinter(&buf, console.GetTheme("Plain")), raw)
	return buf.String(), err
}

func TestRender_KeyMetrics(t *testing.T) {
	out, err := renderString(t, sampleBody)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	want := []string{
		"Max Ball Speed: 42.4 km/h",
		"Ball Detections: 5",
		"Actions Detected: 2",
		"Note: partial model",
	}
	last := -1
	for _, line := range want {
		idx := strings.Index(out, line)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", line, out)
		}
		if idx < last {
			t.Fatalf("%q printed out of order:\n%s", line, out)
		}
		last = idx
	}
	if !strings.Contains(out, "--- Key Metrics ---") {
		t.Fatalf("output missing key metrics section:\n%s", out)
	}
}

func TestRender_PrettyPrintsInOriginalOrder(t *testing.T) {
	out, err := renderString(t, `{"z":1,"a":{"b":[1,2]}}`)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "{\n  \"z\": 1,\n  \"a\": {\n    \"b\": [\n      1,\n      2\n    ]\n  }\n}\n"
	if !strings.Contains(out, want) {
		t.Fatalf("output = %q, want it to contain %q", out, want)
	}
}

func TestRender_MalformedBodyPrintedVerbatim(t *testing.T) {
	out, err := renderString(t, "not json")
	if err == nil {
		t.Fatalf("Render returned nil error for malformed body")
	}
	errIdx := strings.Index(out, "Error parsing results:")
	rawIdx := strings.Index(out, "Raw response: not json")
	if errIdx < 0 || rawIdx < 0 || rawIdx < errIdx {
		t.Fatalf("output = %q, want parse error then raw body", out)
	}
}

func TestRender_MissingAnalysisStillPrints(t *testing.T) {
	out, err := renderString(t, `{"status":"success"}`)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, `"status": "success"`) {
		t.Fatalf("output = %q, want pretty JSON", out)
	}
	if strings.Contains(out, "Key Metrics") || strings.Contains(out, "Note:") {
		t.Fatalf("output = %q, want no summary", out)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", `{"a":1} trailing`, `1 2`} {
		if _, _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) returned nil error", raw)
		}
	}
	for _, raw := range []string{`[]`, `"x"`, ` {"a":1}` + "\n", `null`} {
		if _, _, err := Parse(raw); err != nil {
			t.Errorf("Parse(%q) returned error: %v", raw, err)
		}
	}
}

func TestKeyMetrics_IndependentAndTypeTolerant(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     []Metric
		analysis bool
	}{
		{
			name: "no analysis",
			body: `{"note":"x"}`,
		},
		{
			name:     "analysis not an object",
			body:     `{"analysis":[1,2]}`,
			analysis: false,
		},
		{
			name:     "empty analysis",
			body:     `{"analysis":{}}`,
			analysis: true,
		},
		{
			name:     "only actions",
			body:     `{"analysis":{"action_recognition":{"actions_detected":[]}}}`,
			want:     []Metric{{"Actions Detected", "0"}},
			analysis: true,
		},
		{
			name:     "wrong types skipped",
			body:     `{"analysis":{"ball_tracking":{"max_speed_kmh":"fast","detections_count":2.5},"action_recognition":{"actions_detected":"many"}}}`,
			analysis: true,
		},
		{
			name:     "integral float count",
			body:     `{"analysis":{"ball_tracking":{"detections_count":5.0}}}`,
			want:     []Metric{{"Ball Detections", "5"}},
			analysis: true,
		},
		{
			name:     "count beyond int64",
			body:     `{"analysis":{"ball_tracking":{"detections_count":9223372036854775808}}}`,
			analysis: true,
		},
		{
			name:     "negative count beyond int64",
			body:     `{"analysis":{"ball_tracking":{"detections_count":-1e19}}}`,
			analysis: true,
		},
		{
			name: "service sample",
			body: `{"analysis":{"ball_tracking":{"detected":true,"max_speed_kmh":45.7,"avg_speed_kmh":32.3,"detections_count":150},` +
				`"action_recognition":{"actions_detected":[{"type":"PASS"},{"type":"SHOOT"},{"type":"DRIBBLE"}]},` +
				`"posture_analysis":{"postures":[{"type":"DROIT","count":120}]}}}`,
			want: []Metric{
				{"Max Ball Speed", "45.7 km/h"},
				{"Ball Detections", "150"},
				{"Actions Detected", "3"},
				{"Avg Ball Speed", "32.3 km/h"},
				{"Postures Observed", "1"},
			},
			analysis: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := Parse(tt.body)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			got, ok := KeyMetrics(doc)
			if ok != tt.analysis {
				t.Fatalf("KeyMetrics ok = %v, want %v", ok, tt.analysis)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("KeyMetrics = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("KeyMetrics[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLookup_SafeNavigation(t *testing.T) {
	doc, _, err := Parse(`{"a":{"b":"c","n":null},"list":[1]}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v, ok := String(doc, "a", "b"); !ok || v != "c" {
		t.Fatalf("String(a.b) = %q, %v", v, ok)
	}
	if _, ok := Lookup(doc, "a", "b", "deeper"); ok {
		t.Fatalf("Lookup through a string reported present")
	}
	if _, ok := Lookup(doc, "list", "0"); ok {
		t.Fatalf("Lookup into an array reported present")
	}
	if _, ok := String(doc, "a", "n"); ok {
		t.Fatalf("String(null) reported present")
	}
	if _, ok := Float(nil, "x"); ok {
		t.Fatalf("Float on nil doc reported present")
	}
}
