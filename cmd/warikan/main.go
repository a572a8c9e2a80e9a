// Command warikan is a local reference adapter for the ledger engine: it
// wires a storage backend, a roster-based name resolver and a stdin
// confirmation prompt to the ledger commands. Chat-platform adapters replace
// this binary; the engine itself exposes no network surface.
//
// Usage:
//
//	warikan -group <id> insert <payer> <participant>[,<participant>...] <amount> <title>
//	warikan -group <id> delete <position>
//	warikan -group <id> [-count n] [-user id] [-user2 id] history
//	warikan -group <id> [-user id] list
//	warikan -group <id> settle <userA> <userB>
//
// Environment variables:
//
//	STORAGE_DIR:   directory for JSON ledgers (default: ./data)
//	STORE_BACKEND: file | sqlite (default: file)
//	DB_PATH:       sqlite database path (default: ./data/warikan.db)
//	MEMBERS_PATH:  JSON roster mapping user ids to display names
//	METRICS_ADDR:  serve Prometheus /metrics on this address when set
//	LOG_LEVEL:     debug, info, warn, error (default: info)
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/warikan/internal/ledger"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/netting"
	"github.com/mmynk/warikan/internal/storage"
	"github.com/mmynk/warikan/internal/storage/jsonfile"
	"github.com/mmynk/warikan/internal/storage/sqlite"
	"github.com/mmynk/warikan/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	group := flag.String("group", "", "group id (a fresh uuid is generated when omitted)")
	members := flag.String("members", getEnv("MEMBERS_PATH", ""), "path to a JSON roster mapping user ids to display names")
	count := flag.Int("count", ledger.DefaultHistoryCount, "history rows to show")
	user := flag.String("user", "", "filter to this user id (history, list)")
	user2 := flag.String("user2", "", "filter to this second user id (history)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := openStore()
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, nil); err != nil {
				slog.Error("metrics listener failed", "address", addr, "error", err)
			}
		}()
	}

	groupID := *group
	if groupID == "" {
		groupID = uuid.New().String()
		slog.Info("generated group id", "group_id", groupID)
	}

	resolve := newResolver(*members)
	svc := ledger.NewService(store)
	ctx := context.Background()

	msg, err := run(ctx, svc, resolve, groupID, runOptions{
		count: *count,
		user:  *user,
		user2: *user2,
		args:  flag.Args(),
	})
	switch {
	case errors.Is(err, ledger.ErrCancelled):
		// Declined: informational, nothing changed, nothing to print.
	case err != nil:
		fmt.Fprintln(os.Stderr, ledger.UserMessage(err))
		os.Exit(1)
	default:
		fmt.Println(msg)
	}
}

type runOptions struct {
	count int
	user  string
	user2 string
	args  []string
}

func run(ctx context.Context, svc *ledger.Service, resolve ledger.ResolveNameFunc, groupID string, opts runOptions) (string, error) {
	command, args := opts.args[0], opts.args[1:]
	switch command {
	case "insert":
		if len(args) != 4 {
			return "", usageError("insert <payer> <participant>[,<participant>...] <amount> <title>")
		}
		amount, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return "", fmt.Errorf("bad amount %q: %w", args[2], err)
		}
		payer := userRef(ctx, resolve, args[0])
		var entries []ledger.Entry
		for _, id := range strings.Split(args[1], ",") {
			entries = append(entries, ledger.Entry{
				Participant: userRef(ctx, resolve, id),
				Payer:       payer,
				Amount:      amount,
				Title:       args[3],
			})
		}
		return svc.Insert(ctx, groupID, entries)

	case "delete":
		if len(args) != 1 {
			return "", usageError("delete <position>")
		}
		position, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("bad position %q: %w", args[0], err)
		}
		return svc.Delete(ctx, groupID, position, resolve)

	case "history":
		historyOpts := ledger.HistoryOptions{Count: opts.count}
		if opts.user != "" {
			u := userRef(ctx, resolve, opts.user)
			historyOpts.User1 = &u
		}
		if opts.user2 != "" {
			u := userRef(ctx, resolve, opts.user2)
			historyOpts.User2 = &u
		}
		return svc.History(ctx, groupID, resolve, historyOpts)

	case "list":
		return svc.ListTransfers(ctx, groupID, resolve, opts.user)

	case "settle":
		if len(args) != 2 {
			return "", usageError("settle <userA> <userB>")
		}
		return svc.Settle(ctx, groupID,
			userRef(ctx, resolve, args[0]), userRef(ctx, resolve, args[1]),
			confirmOnStdin, resolve)

	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}

func usageError(usage string) error {
	return fmt.Errorf("usage: warikan %s", usage)
}

func userRef(ctx context.Context, resolve ledger.ResolveNameFunc, id string) models.UserRef {
	return models.UserRef{ID: id, DisplayName: resolve(ctx, id)}
}

// openStore picks the storage backend from the environment.
func openStore() (storage.Store, error) {
	switch backend := getEnv("STORE_BACKEND", "file"); backend {
	case "file":
		return jsonfile.New(getEnv("STORAGE_DIR", "./data"))
	case "sqlite":
		return sqlite.New(getEnv("DB_PATH", "./data/warikan.db"))
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

// newResolver builds a ResolveNameFunc from an optional roster file. With a
// roster, unknown ids resolve to the departed-member placeholder; without
// one, ids resolve to themselves.
func newResolver(path string) ledger.ResolveNameFunc {
	if path == "" {
		return func(_ context.Context, userID string) string { return userID }
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read roster", "path", path, "error", err)
		os.Exit(1)
	}
	var roster map[string]string
	if err := json.Unmarshal(data, &roster); err != nil {
		slog.Error("failed to parse roster", "path", path, "error", err)
		os.Exit(1)
	}
	return func(_ context.Context, userID string) string {
		if name, ok := roster[userID]; ok {
			return name
		}
		return ledger.UnknownUserName
	}
}

// confirmOnStdin asks on the terminal whether to record the transfer.
// Anything but an explicit yes declines.
func confirmOnStdin(ctx context.Context, transfer netting.Transfer) bool {
	fmt.Printf("%s から %s へ %d円 の返金を記録しますか？ [y/N]: ", transfer.From, transfer.To, transfer.Amount)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
