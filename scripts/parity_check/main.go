// Command parity_check replays dashboard requests against two deployments and reports where the
// page data differs. Envelope meta (cache hits, timings) is ignored.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type side struct {
	status   int
	data     interface{}
	duration time.Duration
}

type result struct {
	target    target
	baseline  side
	candidate side
	dataMatch bool
	err       error
}

func (r result) differs() bool {
	return r.err != nil || r.baseline.status != r.candidate.status || !r.dataMatch
}

func main() {
	var (
		baseline    string
		candidate   string
		token       string
		targetsPath string
		timeout     time.Duration
	)
	flag.StringVar(&baseline, "baseline", "http://localhost:8080/api/v1", "Reference deployment base URL")
	flag.StringVar(&candidate, "candidate", "http://localhost:8081/api/v1", "Deployment under test base URL")
	flag.StringVar(&token, "token", os.Getenv("DASHBOARD_TOKEN"), "Bearer token sent to both deployments")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "parity_check", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	logr, _ := zap.NewDevelopment()
	defer logr.Sync() //nolint:errcheck
	log := logr.Sugar()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalw("failed to load targets", "error", err)
	}

	client := &http.Client{Timeout: timeout}
	var breaking, optional int
	for _, t := range targets {
		res := compare(context.Background(), client, baseline, candidate, token, t)
		report(log, res)
		if !res.differs() {
			continue
		}
		if t.Critical {
			breaking++
		} else {
			optional++
		}
	}

	log.Infow("parity check finished", "targets", len(targets), "breaking", breaking, "optional", optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compare(ctx context.Context, client *http.Client, baseline, candidate, token string, t target) result {
	res := result{target: t}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.baseline, err = fetch(gctx, client, baseline, token, t)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.candidate, err = fetch(gctx, client, candidate, token, t)
		if err != nil {
			return fmt.Errorf("candidate: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		res.err = err
		return res
	}
	res.dataMatch = reflect.DeepEqual(res.baseline.data, res.candidate.data)
	return res
}

func fetch(ctx context.Context, client *http.Client, base, token string, t target) (side, error) {
	if client == nil {
		return side{}, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(t.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := t.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return side{}, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return side{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return side{}, fmt.Errorf("read body: %w", err)
	}
	out := side{status: resp.StatusCode, duration: time.Since(start)}

	var envelope struct {
		Data       interface{} `json:"data"`
		Error      interface{} `json:"error"`
		Pagination interface{} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		out.data = strings.TrimSpace(string(body))
		return out, nil
	}
	out.data = map[string]interface{}{
		"data":       normalise(envelope.Data),
		"error":      envelope.Error,
		"pagination": envelope.Pagination,
	}
	return out, nil
}

// normalise collapses integral floats so 3 and 3.0 compare equal.
func normalise(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalise(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalise(item)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return v
	}
}

func report(log *zap.SugaredLogger, res result) {
	fields := []interface{}{
		"method", res.target.Method,
		"path", res.target.Path,
		"critical", res.target.Critical,
		"baseline_status", res.baseline.status,
		"candidate_status", res.candidate.status,
		"baseline_ms", res.baseline.duration.Milliseconds(),
		"candidate_ms", res.candidate.duration.Milliseconds(),
	}
	switch {
	case res.err != nil:
		log.Errorw("request failed", append(fields, "error", res.err)...)
	case res.differs():
		log.Warnw("responses differ", append(fields, "data_match", res.dataMatch)...)
	default:
		log.Infow("responses match", fields...)
	}
}
