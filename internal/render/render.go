// Package render turns the inference service's reply into console output.
//
// The reply has no fixed schema. Every field the summary mentions is looked up
// independently and silently skipped when absent or of the wrong type.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hockeytrainer/videoclient/internal/console"
)

// Metric is one line of the key metrics summary.
type Metric struct {
	Label string
	Value string
}

// Parse decodes raw as a single JSON document and returns it together with a
// two-space indented copy that keeps the original key order.
func Parse(raw string) (any, string, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, "", fmt.Errorf("empty response body")
		}
		return nil, "", err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("unexpected data after JSON document")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace([]byte(raw)), "", "  "); err != nil {
		return nil, "", err
	}
	return doc, pretty.String(), nil
}

// KeyMetrics extracts the summary lines in display order. The bool reports
// whether the document has an "analysis" object at all.
func KeyMetrics(doc any) ([]Metric, bool) {
	if !IsObject(doc, "analysis") {
		return nil, false
	}
	var out []Metric
	if v, ok := Float(doc, "analysis", "ball_tracking", "max_speed_kmh"); ok {
		out = append(out, Metric{"Max Ball Speed", speed(v)})
	}
	if v, ok := Int(doc, "analysis", "ball_tracking", "detections_count"); ok {
		out = append(out, Metric{"Ball Detections", strconv.FormatInt(v, 10)})
	}
	if n, ok := Len(doc, "analysis", "action_recognition", "actions_detected"); ok {
		out = append(out, Metric{"Actions Detected", strconv.Itoa(n)})
	}
	if v, ok := Float(doc, "analysis", "ball_tracking", "avg_speed_kmh"); ok {
		out = append(out, Metric{"Avg Ball Speed", speed(v)})
	}
	if n, ok := Len(doc, "analysis", "posture_analysis", "postures"); ok {
		out = append(out, Metric{"Postures Observed", strconv.Itoa(n)})
	}
	return out, true
}

// Render prints the results. It always produces output: a body that is not
// JSON is reported and then printed verbatim. The returned error only tells
// the caller that the body was malformed.
func Render(p *console.Printer, raw string) error {
	p.Heading("Analysis Results:", '=')
	p.Blank()

	doc, pretty, err := Parse(raw)
	if err != nil {
		p.Field("Error parsing results", err.Error())
		p.Field("Raw response", raw)
		return fmt.Errorf("parse results: %w", err)
	}
	p.Println(pretty)

	if metrics, ok := KeyMetrics(doc); ok {
		p.Blank()
		p.Section("Key Metrics")
		for _, m := range metrics {
			p.Field(m.Label, m.Value)
		}
	}
	if note, ok := String(doc, "note"); ok {
		p.Blank()
		p.Field("Note", note)
	}
	return nil
}

func speed(kmh float64) string {
	return strconv.FormatFloat(kmh, 'f', 1, 64) + " km/h"
}
