package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

// newCrawler answers every slot with the same counts; broken slots get a non json messages body
func newCrawler(t *testing.T, broken ...string) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		switch {
		case strings.HasPrefix(r.URL.Path, "/eth/v1/crawler/validators/"):
			fmt.Fprint(w, `{"data":{"count":10}}`)
		case strings.HasPrefix(r.URL.Path, "/eth/v1/crawler/messages/"):
			for _, b := range broken {
				if b == slot {
					w.WriteHeader(http.StatusBadGateway)
					fmt.Fprint(w, `<html>bad gateway</html>`)
					return
				}
			}
			fmt.Fprint(w, `{"data":[1,2]}`)
		case strings.HasPrefix(r.URL.Path, "/api/v1/block/"):
			fmt.Fprint(w, `{"status":"OK","data":{"syncaggregate_participation":0.5}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func runSyncCheck(ctx context.Context, url string, args ...string) error {
	command := *SyncCheckCommand
	app := &cli.App{
		Name:     "syncwatch-test",
		Commands: []*cli.Command{&command},
	}
	base := []string{"syncwatch-test", "sync-check",
		"--validators-endpoint", url + "/eth/v1/crawler/validators/",
		"--messages-endpoint", url + "/eth/v1/crawler/messages/",
		"--beaconchain-endpoint", url + "/api/v1/block/",
	}
	return app.RunContext(ctx, append(base, args...))
}

func TestSyncCheckCommand(t *testing.T) {
	ts := newCrawler(t)
	require.NoError(t, runSyncCheck(context.Background(), ts.URL, "--slot-range", "10:12"))
}

func TestSyncCheckCommandFatalError(t *testing.T) {
	ts := newCrawler(t, "11")
	err := runSyncCheck(context.Background(), ts.URL, "--slot-range", "10:13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to request messages for slot 11")
}

func TestSyncCheckCommandInvalidConfig(t *testing.T) {
	ts := newCrawler(t)
	require.Error(t, runSyncCheck(context.Background(), ts.URL, "--slot-range", "12:10"))
	require.Error(t, runSyncCheck(context.Background(), ts.URL, "--request-timeout", "-1s"))
}

func TestSyncCheckCommandCancelled(t *testing.T) {
	ts := newCrawler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// an interrupted check is not a failure
	require.NoError(t, runSyncCheck(ctx, ts.URL, "--slot-range", "10:20"))
}
