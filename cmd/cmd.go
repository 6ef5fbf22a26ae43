// Package cmd provides CLI command implementations for Halo.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/halo-viz/halo-go/internal/graph"
	"github.com/halo-viz/halo-go/internal/rules"
	"github.com/halo-viz/halo-go/internal/session"
	"github.com/halo-viz/halo-go/internal/snapshot"
	"github.com/halo-viz/halo-go/internal/storage"
	"github.com/halo-viz/halo-go/internal/style"
	"github.com/halo-viz/halo-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// inputFlags are the shared snapshot/config/rules inputs.
type inputFlags struct {
	Config string `help:"Path to YAML config" default:"halo.yml"`
	Rules  string `help:"Path to JSON rule set" default:"rules.json"`
	Active string `help:"Active node identifier (overrides the snapshot's)"`
}

// load reads config, rules, and the snapshot, and builds a session
// around them.
func (f *inputFlags) load(snapshotPath string) (*session.Session, *session.ActiveState, *snapshot.Snapshot, error) {
	cfg, err := style.LoadConfig(f.Config)
	if err != nil {
		return nil, nil, nil, err
	}

	ruleList, err := rules.LoadRuleSet(f.Rules)
	if err != nil {
		return nil, nil, nil, err
	}

	snap, err := snapshot.Load(snapshotPath)
	if err != nil {
		return nil, nil, nil, err
	}

	state := &session.ActiveState{}
	if f.Active != "" {
		state.Set(f.Active)
	} else {
		state.Set(snap.Active)
	}

	sess := session.New(session.Options{
		Config: cfg,
		Rules:  ruleList,
		Tags:   snap.TagLookup(),
		Active: state.Resolver(),
	})
	return sess, state, snap, nil
}

// ResolveCmd runs one full styling pass over a snapshot.
type ResolveCmd struct {
	Snapshot string `arg:"" help:"Path to graph snapshot JSON"`
	Format   string `help:"Output format (json|text)" enum:"json,text" default:"text"`
	inputFlags
}

// Run executes the resolve command.
func (c *ResolveCmd) Run() error {
	sess, _, snap, err := c.load(c.Snapshot)
	if err != nil {
		return err
	}

	sess.Recompute(snap.Nodes, snap.Edges)
	table := sess.Table()

	if c.Format == "json" {
		return outputJSON(table)
	}

	nodeCount, edgeCount := sess.Counts()
	color.Green("✓ Resolved styles for %d nodes, %d edges", nodeCount, edgeCount)
	if table.Active != "" {
		fmt.Printf("  Active: %s\n", table.Active)
	} else {
		fmt.Println("  Active: (none)")
	}

	ids := make([]string, 0, len(table.Nodes))
	for id := range table.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("\nNodes:")
	for _, id := range ids {
		ns := table.Nodes[id]
		fmt.Printf("  %-40s %s opacity=%.2f shape=%s size=%.2f\n", id, ns.Color.Hex(), ns.Opacity, ns.Shape, ns.Size)
	}

	fmt.Println("\nEdges:")
	for _, e := range table.Edges {
		fmt.Printf("  %s -> %-30s %s opacity=%.2f width=%.2f\n", e.Source, e.Target, e.Style.Color.Hex(), e.Style.Opacity, e.Style.Width)
	}

	return nil
}

// HopsCmd shows the hop classification from a source node.
type HopsCmd struct {
	Snapshot string `arg:"" help:"Path to graph snapshot JSON"`
	Source   string `arg:"" help:"Source node identifier"`
	MaxHops  int    `short:"n" default:"0" help:"Hop horizon (default: config max_hops)"`
	inputFlags
}

// Run executes the hops command.
func (c *HopsCmd) Run() error {
	cfg, err := style.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	snap, err := snapshot.Load(c.Snapshot)
	if err != nil {
		return err
	}

	maxHops := c.MaxHops
	if maxHops < 1 {
		maxHops = cfg.MaxHops
	}

	g := graph.Build(snap.Nodes)
	for _, e := range snap.Edges {
		g.AddEdge(e.Source, e.Target)
	}

	if !g.HasNode(c.Source) {
		fmt.Printf("Node %q not present in the graph.\n", c.Source)
		return nil
	}

	hops := graph.HopNeighbors(g, c.Source, maxHops)
	connected := graph.Connected(g, c.Source)

	fmt.Printf("Hop neighbors of %s (max %d):\n", c.Source, maxHops)
	for hop := 1; hop <= maxHops; hop++ {
		set := hops[hop]
		if len(set) == 0 {
			fmt.Printf("  hop %d: (none)\n", hop)
			continue
		}
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("  hop %d: %d node(s)\n", hop, len(ids))
		for _, id := range ids {
			fmt.Printf("    - %s\n", id)
		}
	}

	fmt.Printf("\nConnected (any distance): %d node(s)\n", len(connected))
	return nil
}

// MatchCmd shows which rule matches a node, if any.
type MatchCmd struct {
	Snapshot string `arg:"" help:"Path to graph snapshot JSON"`
	Node     string `arg:"" help:"Node identifier to test"`
	inputFlags
}

// Run executes the match command.
func (c *MatchCmd) Run() error {
	ruleList, err := rules.LoadRuleSet(c.Rules)
	if err != nil {
		return err
	}

	snap, err := snapshot.Load(c.Snapshot)
	if err != nil {
		return err
	}
	tags := snap.TagLookup()

	for i := range ruleList {
		rule := &ruleList[i]
		if !rule.Enabled {
			continue
		}
		if rule.Matches(c.Node, tags) {
			color.Green("✓ Rule %d matches", i)
			fmt.Printf("  ID:      %s\n", rule.ID)
			fmt.Printf("  Kind:    %s\n", rule.Kind)
			fmt.Printf("  Pattern: %s\n", rule.Pattern)
			if rule.Color != nil {
				fmt.Printf("  Color:   %s\n", rule.Color.Hex())
			}
			if rule.Shape != nil {
				fmt.Printf("  Shape:   %s\n", *rule.Shape)
			}
			if rule.Size != nil {
				fmt.Printf("  Size:    %.2f\n", *rule.Size)
			}
			return nil
		}
	}

	fmt.Printf("No rule matches %q; configuration defaults apply.\n", c.Node)
	return nil
}

// PresetCmd groups the preset store subcommands.
type PresetCmd struct {
	Save   PresetSaveCmd   `cmd:"" help:"Save current config and rules as a named preset"`
	Load   PresetLoadCmd   `cmd:"" help:"Print a saved preset"`
	List   PresetListCmd   `cmd:"" help:"List saved presets"`
	Delete PresetDeleteCmd `cmd:"" help:"Delete a saved preset"`
}

// PresetSaveCmd saves a named preset.
type PresetSaveCmd struct {
	Name   string `arg:"" help:"Preset name"`
	Config string `help:"Path to YAML config" default:"halo.yml"`
	Rules  string `help:"Path to JSON rule set" default:"rules.json"`
}

// Run executes the preset save command.
func (c *PresetSaveCmd) Run() error {
	cfg, err := style.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	ruleList, err := rules.LoadRuleSet(c.Rules)
	if err != nil {
		return err
	}

	store, err := openPresets(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	preset := &storage.Preset{Name: c.Name, Config: cfg, Rules: ruleList}
	if err := store.SavePreset(context.Background(), preset); err != nil {
		return err
	}

	color.Green("✓ Saved preset %q (%d rules)", c.Name, len(ruleList))
	return nil
}

// PresetLoadCmd prints a saved preset as JSON.
type PresetLoadCmd struct {
	Name string `arg:"" help:"Preset name"`
}

// Run executes the preset load command.
func (c *PresetLoadCmd) Run() error {
	store, err := openPresets(true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	preset, err := store.GetPreset(context.Background(), c.Name)
	if err != nil {
		return err
	}
	if preset == nil {
		return fmt.Errorf("preset %q not found", c.Name)
	}
	return outputJSON(preset)
}

// PresetListCmd lists saved presets.
type PresetListCmd struct{}

// Run executes the preset list command.
func (c *PresetListCmd) Run() error {
	store, err := openPresets(true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	presets, err := store.ListPresets(context.Background())
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Println("No presets saved")
		return nil
	}

	fmt.Println("Saved presets:")
	for _, p := range presets {
		fmt.Printf("  %-20s %d rule(s), saved %s\n", p.Name, len(p.Rules), p.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// PresetDeleteCmd deletes a saved preset.
type PresetDeleteCmd struct {
	Name string `arg:"" help:"Preset name"`
}

// Run executes the preset delete command.
func (c *PresetDeleteCmd) Run() error {
	store, err := openPresets(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	existed, err := store.DeletePreset(context.Background(), c.Name)
	if err != nil {
		return err
	}
	if !existed {
		fmt.Printf("Preset %q not found\n", c.Name)
		return nil
	}

	color.Green("✓ Deleted preset %q", c.Name)
	return nil
}

// WatchCmd watches a snapshot file and re-resolves on change.
type WatchCmd struct {
	Snapshot string `arg:"" help:"Path to graph snapshot JSON"`
	inputFlags
}

// Run executes the watch command.
func (c *WatchCmd) Run() error {
	sess, _, snap, err := c.load(c.Snapshot)
	if err != nil {
		return err
	}

	sess.OnRefresh(func() {
		nodes, edges := sess.Counts()
		fmt.Printf("Recomputed styles: %d nodes, %d edges\n", nodes, edges)
	})
	sess.Recompute(snap.Nodes, snap.Edges)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-osSignalChannel()
		fmt.Println("\nStopping watch mode...")
		cancel()
	}()

	err = sess.Watch(ctx, c.Snapshot, reloadSnapshot(c.Snapshot))
	if err != nil && err != context.Canceled {
		return fmt.Errorf("watch error: %w", err)
	}

	fmt.Println("Watch mode stopped.")
	return nil
}

// ServeCmd serves resolved styles over HTTP/WebSocket with watching.
type ServeCmd struct {
	Snapshot string `arg:"" help:"Path to graph snapshot JSON"`
	Addr     string `help:"Listen address" default:":8745"`
	Debug    bool   `help:"Enable debug logging"`
	inputFlags
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	log := logrus.New()
	if c.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := style.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	ruleList, err := rules.LoadRuleSet(c.Rules)
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(c.Snapshot)
	if err != nil {
		return err
	}

	state := &session.ActiveState{}
	if c.Active != "" {
		state.Set(c.Active)
	} else {
		state.Set(snap.Active)
	}

	sess := session.New(session.Options{
		Config: cfg,
		Rules:  ruleList,
		Tags:   snap.TagLookup(),
		Active: state.Resolver(),
		Log:    log,
	})

	srv := server.New(sess, state, log)
	sess.Recompute(snap.Nodes, snap.Edges)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-osSignalChannel()
		log.Info("shutting down")
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, c.Addr)
	})
	g.Go(func() error {
		return sess.Watch(ctx, c.Snapshot, reloadSnapshot(c.Snapshot))
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// Helper functions

// reloadSnapshot returns a ReloadFunc re-reading the snapshot file.
func reloadSnapshot(path string) session.ReloadFunc {
	return func() (any, []graph.EdgeRef, error) {
		snap, err := snapshot.Load(path)
		if err != nil {
			return nil, nil, err
		}
		return snap.Nodes, snap.Edges, nil
	}
}

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// openPresets opens the preset store under the user's home directory.
func openPresets(readOnly bool) (*storage.BadgerBackend, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	dbPath := filepath.Join(homeDir, ".halo", "badger")
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating preset directory: %w", err)
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, fmt.Errorf("initializing preset store: %w", err)
	}
	return store, nil
}

func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// CLI is the root Kong command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Resolve ResolveCmd `cmd:"" help:"Resolve node and edge styles for a snapshot"`
	Hops    HopsCmd    `cmd:"" help:"Show hop classification from a source node"`
	Match   MatchCmd   `cmd:"" help:"Show which style rule matches a node"`
	Preset  PresetCmd  `cmd:"" help:"Manage saved config/rule presets"`
	Watch   WatchCmd   `cmd:"" help:"Watch a snapshot and re-resolve on change"`
	Serve   ServeCmd   `cmd:"" help:"Serve resolved styles over HTTP/WebSocket"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx, err := kong.New(c,
		kong.Name("halo"),
		kong.Description("Hop-distance and rule-based style engine for graph views"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	parsed, err := kongCtx.Parse(args)
	if err != nil {
		return err
	}
	return parsed.Run()
}
