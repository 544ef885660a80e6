package observability

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// collector is one metric family in Prometheus text exposition format.
type collector interface {
	writeTo(w *bufio.Writer)
}

type registry struct {
	families []collector
}

func (r *registry) counter(name, help string, labels ...string) *family {
	return r.add(newFamily(name, help, "counter", labels))
}

func (r *registry) gauge(name, help string, labels ...string) *family {
	return r.add(newFamily(name, help, "gauge", labels))
}

func (r *registry) histogram(name, help string, buckets []float64, labels ...string) *histFamily {
	if len(buckets) == 0 {
		buckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1}
	}
	h := &histFamily{meta: meta{name: name, help: help, kind: "histogram", labels: labels}, buckets: buckets, series: map[string]*histSeries{}}
	r.families = append(r.families, h)
	return h
}

func (r *registry) add(f *family) *family {
	r.families = append(r.families, f)
	return f
}

func (r *registry) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, f := range r.families {
		f.writeTo(bw)
	}
	return bw.Flush()
}

type meta struct {
	name   string
	help   string
	kind   string
	labels []string
}

func (m meta) header(w *bufio.Writer) {
	w.WriteString("# HELP " + m.name + " " + m.help + "\n")
	w.WriteString("# TYPE " + m.name + " " + m.kind + "\n")
}

// family holds counter or gauge values keyed by rendered label set.
type family struct {
	meta
	mu     sync.RWMutex
	values map[string]float64
}

func newFamily(name, help, kind string, labels []string) *family {
	return &family{meta: meta{name: name, help: help, kind: kind, labels: labels}, values: map[string]float64{}}
}

func (f *family) add(delta float64, values ...string) {
	key := labelString(f.labels, values)
	f.mu.Lock()
	f.values[key] += delta
	f.mu.Unlock()
}

func (f *family) set(v float64, values ...string) {
	key := labelString(f.labels, values)
	f.mu.Lock()
	f.values[key] = v
	f.mu.Unlock()
}

func (f *family) value(values ...string) float64 {
	key := labelString(f.labels, values)
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[key]
}

func (f *family) writeTo(w *bufio.Writer) {
	f.header(w)
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, k := range sortedKeys(f.values) {
		w.WriteString(f.name + k + " " + formatFloat(f.values[k]) + "\n")
	}
}

type histSeries struct {
	cumulative []uint64
	sum        float64
	count      uint64
}

// histFamily keeps cumulative bucket counts, so exposition is a straight copy.
type histFamily struct {
	meta
	buckets []float64
	mu      sync.Mutex
	series  map[string]*histSeries
}

func (h *histFamily) observe(v float64, values ...string) {
	key := labelString(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.series[key]
	if s == nil {
		s = &histSeries{cumulative: make([]uint64, len(h.buckets))}
		h.series[key] = s
	}
	s.sum += v
	s.count++
	for i := sort.SearchFloat64s(h.buckets, v); i < len(h.buckets); i++ {
		s.cumulative[i]++
	}
}

func (h *histFamily) writeTo(w *bufio.Writer) {
	h.header(w)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range sortedKeys(h.series) {
		s := h.series[k]
		for i, b := range h.buckets {
			w.WriteString(h.name + "_bucket" + withLe(k, formatFloat(b)) + " " + strconv.FormatUint(s.cumulative[i], 10) + "\n")
		}
		w.WriteString(h.name + "_bucket" + withLe(k, "+Inf") + " " + strconv.FormatUint(s.count, 10) + "\n")
		w.WriteString(h.name + "_sum" + k + " " + formatFloat(s.sum) + "\n")
		w.WriteString(h.name + "_count" + k + " " + strconv.FormatUint(s.count, 10) + "\n")
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// labelString renders {a="x",b="y"}. Missing or blank values become "unknown".
func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		pairs[i] = name + `="` + labelEscaper.Replace(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return labels[:len(labels)-1] + `,le="` + le + `"}`
}
