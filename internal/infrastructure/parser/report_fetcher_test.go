package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
)

type fakeDownloader struct {
	statuses map[string]int
	failOn   string
}

func (d *fakeDownloader) Download(_ context.Context, url string) (int, []byte, error) {
	if d.failOn != "" && strings.HasSuffix(url, d.failOn) {
		return 0, nil, errors.New("connection reset")
	}
	if status, ok := d.statuses[url]; ok {
		return status, nil, nil
	}
	return http.StatusOK, []byte("xls:" + url), nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

func (s *memStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memStore) Path(name string) string { return "/mem/" + name }

const reportBase = "https://spimex.com/upload/reports/oil_xls/"

func TestFetchSkipsFailedStatus(t *testing.T) {
	t.Parallel()

	urls := []string{
		reportBase + "oil_xls_20240110162000",
		reportBase + "oil_xls_20240109162000",
		reportBase + "oil_xls_20240108162000",
	}
	down := &fakeDownloader{statuses: map[string]int{urls[1]: http.StatusInternalServerError}}
	store := newMemStore()

	res, err := NewReportFetcher(down, store, nil).Fetch(context.Background(), urls, nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if res.Downloaded != 2 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	names, _ := store.List()
	want := []string{"oil_xls_20240108162000.xls", "oil_xls_20240110162000.xls"}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("unexpected stored files: %v", names)
	}
}

func TestFetchLeavesPresentFilesAlone(t *testing.T) {
	t.Parallel()

	urls := []string{
		reportBase + "oil_xls_20240110162000",
		reportBase + "oil_xls_20240109162000",
	}
	store := newMemStore()
	existing := []string{"oil_xls_20240109162000.xls"}

	res, err := NewReportFetcher(&fakeDownloader{}, store, nil).Fetch(context.Background(), urls, existing)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if res.Downloaded != 1 || res.AlreadyPresent != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := store.files["oil_xls_20240109162000.xls"]; ok {
		t.Fatalf("present file must not be downloaded again")
	}
}

func TestFetchTransportErrorAborts(t *testing.T) {
	t.Parallel()

	urls := []string{
		reportBase + "oil_xls_20240110162000",
		reportBase + "oil_xls_20240109162000",
	}
	down := &fakeDownloader{failOn: "20240109162000"}

	if _, err := NewReportFetcher(down, newMemStore(), nil).Fetch(context.Background(), urls, nil); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestFetchCountsMalformedAlongsideFailedDownloads(t *testing.T) {
	t.Parallel()

	down := &fakeDownloader{statuses: map[string]int{}}
	var urls []string
	for i := 0; i < 10; i++ {
		failed := fmt.Sprintf("%soil_xls_202401%02d162000", reportBase, i+1)
		down.statuses[failed] = http.StatusInternalServerError
		urls = append(urls, failed, fmt.Sprintf("%soil_xls_2023xx%02d", reportBase, i))
	}

	res, err := NewReportFetcher(down, newMemStore(), nil).Fetch(context.Background(), urls, nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if res.Skipped != 20 || res.Downloaded != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDownloadOutcomeLabels(t *testing.T) {
	t.Parallel()

	cases := map[downloadOutcome]string{
		downloadWritten: "written",
		downloadSkipped: "skipped",
		downloadFailed:  "failed",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Fatalf("%d: got %q want %q", outcome, got, want)
		}
	}
}
