// Package main provides the Scry CLI entry point.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scrylabs/scry/pkg/config"
	"github.com/scrylabs/scry/pkg/graph"
	"github.com/scrylabs/scry/pkg/query"
	"github.com/scrylabs/scry/pkg/snapshot"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scry",
		Short: "Scry - declarative graph queries for interactive visualization",
		Long: `Scry runs Cypher-like MATCH ... WHERE ... RETURN queries against
in-memory property graphs and emits the filtered sub-graph as JSON,
ready for a rendering surface.

Graphs are supplied as JSON documents ({"nodes": [...], "edges": [...]})
or loaded from previously saved snapshots.`,
	}
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Scry v%s (%s)\n", version, commit)
		},
	})

	queryCmd := &cobra.Command{
		Use:   "query [query text]",
		Short: "Run one query against a graph and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	queryCmd.Flags().String("graph", "", "Graph JSON file, or a saved snapshot name")
	queryCmd.Flags().Bool("fallback-full-graph", false,
		"On a syntax error, print the unfiltered graph instead of failing")
	rootCmd.AddCommand(queryCmd)

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive query shell against one loaded graph",
		RunE:  runShell,
	}
	shellCmd.Flags().String("graph", "", "Graph JSON file, or a saved snapshot name")
	rootCmd.AddCommand(shellCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved graph snapshots",
	}
	saveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save a graph JSON file as a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotSave,
	}
	saveCmd.Flags().String("graph", "", "Graph JSON file to save")
	_ = saveCmd.MarkFlagRequired("graph")
	snapshotCmd.AddCommand(saveCmd)
	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE:  runSnapshotList,
	})
	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotDelete,
	})
	rootCmd.AddCommand(snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Apply()
	return cfg, nil
}

// loadGraph resolves the --graph flag: an existing file path is decoded as
// interchange JSON, anything else is tried as a snapshot name.
func loadGraph(cfg *config.Config, ref string) (*graph.Graph, error) {
	if ref == "" {
		return nil, fmt.Errorf("no graph given (use --graph)")
	}
	if data, err := os.ReadFile(ref); err == nil {
		return graph.Decode(data)
	}

	store, err := snapshot.Open(cfg.Snapshot.Dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ref)
}

func newEngine(cfg *config.Config) *query.Engine {
	return query.NewEngineWithLimits(query.Limits{
		MaxQueryLen: cfg.Engine.MaxQueryLen,
		MaxChainLen: cfg.Engine.MaxChainLen,
	})
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	graphRef, _ := cmd.Flags().GetString("graph")
	g, err := loadGraph(cfg, graphRef)
	if err != nil {
		return err
	}

	result, err := newEngine(cfg).Run(args[0], g)
	if err != nil {
		fallback, _ := cmd.Flags().GetBool("fallback-full-graph")
		if !fallback {
			return err
		}
		logrus.WithField("component", "cli").WithError(err).
			Warn("query rejected, emitting unfiltered graph")
		result = g
	}

	data, err := result.Encode()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	graphRef, _ := cmd.Flags().GetString("graph")
	g, err := loadGraph(cfg, graphRef)
	if err != nil {
		return err
	}
	engine := newEngine(cfg)

	fmt.Printf("Scry shell — %d nodes, %d edges loaded. Empty line to exit.\n",
		g.Order(), g.Size())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("scry> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		result, err := engine.Run(line, g)
		if err != nil {
			// The previously displayed result stays; only the message is
			// shown, matching the host UI policy.
			fmt.Printf("!! %v\n", err)
			continue
		}
		data, err := result.Encode()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		fmt.Printf("-- %d nodes, %d edges\n", result.Order(), result.Size())
	}
	return scanner.Err()
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("graph")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := graph.Decode(data)
	if err != nil {
		return err
	}

	store, err := snapshot.Open(cfg.Snapshot.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(args[0], g); err != nil {
		return err
	}
	fmt.Printf("Saved %q (%d nodes, %d edges)\n", args[0], g.Order(), g.Size())
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := snapshot.Open(cfg.Snapshot.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No snapshots saved.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := snapshot.Open(cfg.Snapshot.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %q\n", args[0])
	return nil
}
