// Command jb is a CLI client for the JingleBox service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jingleboxpro/jinglebox/internal/model"
	"github.com/jingleboxpro/jinglebox/internal/prefs"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "jinglebox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jinglebox")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tf tokenFile) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tf)
}

func loadToken() (tokenFile, error) {
	var tf tokenFile
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(b, &tf); err != nil {
		return tf, err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return tf, errors.New("no valid token (login required)")
	}
	return tf, nil
}

// ---- http client ----

type client struct {
	base   string
	bearer string
	hc     *http.Client
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server said %d: %s", e.Status, e.Message)
}

// call performs one JSON round-trip. A nil out discards the response body.
func (c *client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &apiError{Status: resp.StatusCode, Message: eb.Message}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---- wire types (mirror the server) ----

type authResp struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

type pageResp struct {
	Username     string `json:"username"`
	MessageCount int    `json:"message_count"`
	PendingGifts int    `json:"pending_gifts"`
}

type giftResp struct {
	ID          int64          `json:"id"`
	FromLabel   string         `json:"from"`
	Template    string         `json:"template"`
	Message     string         `json:"message"`
	Wrapping    model.Wrapping `json:"wrapping"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// waitReveal blocks for d, printing a short notice; Ctrl-C aborts it.
func waitReveal(ctx context.Context, d time.Duration, what string) error {
	if d <= 0 {
		return nil
	}
	fmt.Printf("%s... (%.0fs, Ctrl-C to cancel)\n", what, d.Seconds())
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `jb CLI
Usage:
  jb -addr URL <cmd> [args]

Commands:
  version
  signup     -email <email> -p <password> -u <username>   (claims your page)
  login      -email <email> -p <password>                 (saves token)
  countdown                                               (days until Christmas)
  find                                                    (locate your own page)
  page       -u <username>                                (render a page)
  messages   -u <username>                                (list tree messages)
  message    -u <username> -text <text> [-from <name>]    (pin a message)
  gift-send  -to <username> -template <t> [-note <text>]
             [-wrap color:pattern:ribbon]
  gifts                                                   (pending count)
  unwrap                                                  (open the next gift)
  customize  -u <username> [-scene <s>|next|prev] [-tree <color>]
             [-ornament kind:x:y] [-reset] [-show]
  scenes                                                  (list scenes and colors)
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the HTTP API.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &client{base: strings.TrimRight(*addr, "/"), hc: &http.Client{Timeout: 30 * time.Second}}

	switch cmd {

	case "version":
		fmt.Printf("jb %s (%s)\n", version, buildDate)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		u := fs.String("u", "", "page username")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" || *u == "" {
			fmt.Fprintln(os.Stderr, "need -email, -p and -u")
			os.Exit(1)
		}

		var resp authResp
		err := cli.call(ctx, http.MethodPost, "/auth/signup", map[string]string{
			"email": *email, "password": *p, "username": *u,
		}, &resp)
		if err != nil {
			fail(err)
		}
		if err := saveToken(tokenFile{AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt, Username: resp.Username}); err != nil {
			fail(err)
		}
		// seed local customization so the page renders with defaults
		if err := prefs.Save(resp.Username, model.DefaultCustomization()); err != nil {
			fail(err)
		}
		fmt.Printf("welcome, %s! your page is ready\n", resp.Username)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		var resp authResp
		err := cli.call(ctx, http.MethodPost, "/auth/signin", map[string]string{
			"email": *email, "password": *p,
		}, &resp)
		if err != nil {
			fail(err)
		}
		if err := saveToken(tokenFile{AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt, Username: resp.Username}); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "countdown":
		var rem struct {
			Days    int       `json:"days"`
			Hours   int       `json:"hours"`
			Minutes int       `json:"minutes"`
			Seconds int       `json:"seconds"`
			Target  time.Time `json:"target"`
		}
		if err := cli.call(ctx, http.MethodGet, "/countdown", nil, &rem); err != nil {
			fail(err)
		}
		fmt.Printf("%dd %02dh %02dm %02ds until Christmas\n", rem.Days, rem.Hours, rem.Minutes, rem.Seconds)

	case "find":
		// locate your own page after login; a 404 means customize first
		tf, err := loadToken()
		if err != nil {
			fail(err)
		}
		cli.bearer = tf.AccessToken

		var resp pageResp
		err = cli.call(ctx, http.MethodGet, "/me/page", nil, &resp)
		var ae *apiError
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			fmt.Println("no page yet; claim one with: jb signup, or customize your tree")
			return
		}
		if err != nil {
			fail(err)
		}
		fmt.Printf("your page: /pages/%s (%d messages, %d gifts waiting)\n",
			resp.Username, resp.MessageCount, resp.PendingGifts)

	case "page":
		fs := flag.NewFlagSet("page", flag.ExitOnError)
		u := fs.String("u", "", "username")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" {
			fmt.Fprintln(os.Stderr, "need -u")
			os.Exit(1)
		}
		if err := showPage(ctx, cli, *u); err != nil {
			fail(err)
		}

	case "messages":
		fs := flag.NewFlagSet("messages", flag.ExitOnError)
		u := fs.String("u", "", "username")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" {
			fmt.Fprintln(os.Stderr, "need -u")
			os.Exit(1)
		}
		var msgs []model.Message
		if err := cli.call(ctx, http.MethodGet, "/pages/"+*u+"/messages", nil, &msgs); err != nil {
			fail(err)
		}
		printJSON(msgs)

	case "message":
		fs := flag.NewFlagSet("message", flag.ExitOnError)
		u := fs.String("u", "", "recipient username")
		text := fs.String("text", "", "message text")
		from := fs.String("from", "", "sender name (defaults to your page)")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *text == "" {
			fmt.Fprintln(os.Stderr, "need -u and -text")
			os.Exit(1)
		}
		sender := *from
		if sender == "" {
			if tf, err := loadToken(); err == nil && tf.Username != "" {
				sender = tf.Username
			} else {
				sender = "anonymous elf"
			}
		}
		var msg model.Message
		err := cli.call(ctx, http.MethodPost, "/pages/"+*u+"/messages", map[string]string{
			"text": *text, "sender": sender,
		}, &msg)
		if err != nil {
			fail(err)
		}
		fmt.Printf("pinned at (%.0f%%, %.0f%%)\n", msg.Position.X, msg.Position.Y)

	case "gift-send":
		fs := flag.NewFlagSet("gift-send", flag.ExitOnError)
		to := fs.String("to", "", "recipient username")
		tpl := fs.String("template", "", "gift template")
		note := fs.String("note", "", "gift note")
		wrap := fs.String("wrap", "", "color:pattern:ribbon")
		_ = fs.Parse(flag.Args()[1:])
		if *to == "" || *tpl == "" {
			fmt.Fprintln(os.Stderr, "need -to and -template")
			os.Exit(1)
		}

		tf, err := loadToken()
		if err != nil {
			fail(err)
		}
		cli.bearer = tf.AccessToken

		wrapping := model.DefaultWrapping()
		if *wrap != "" {
			parts := strings.SplitN(*wrap, ":", 3)
			if len(parts) != 3 {
				fail(errors.New("wrap must be color:pattern:ribbon"))
			}
			wrapping = model.Wrapping{
				Color:   model.WrapColor(parts[0]),
				Pattern: model.WrapPattern(parts[1]),
				Ribbon:  model.WrapRibbon(parts[2]),
			}
			if !wrapping.Valid() {
				fail(errors.New("unknown wrapping option"))
			}
		}

		var sent giftResp
		err = cli.call(ctx, http.MethodPost, "/pages/"+*to+"/gifts", map[string]any{
			"template": *tpl, "note": *note, "wrapping": wrapping,
		}, &sent)
		if err != nil {
			fail(err)
		}
		fmt.Printf("sent %q to %s\n", sent.Name, *to)

	case "gifts":
		tf, err := loadToken()
		if err != nil {
			fail(err)
		}
		cli.bearer = tf.AccessToken

		var resp struct {
			Pending int `json:"pending"`
		}
		if err := cli.call(ctx, http.MethodGet, "/me/gifts", nil, &resp); err != nil {
			fail(err)
		}
		fmt.Printf("%d gift(s) under your tree\n", resp.Pending)

	case "unwrap":
		tf, err := loadToken()
		if err != nil {
			fail(err)
		}
		cli.bearer = tf.AccessToken

		fmt.Println("unwrapping... (Ctrl-C to cancel)")
		var g giftResp
		if err := cli.call(ctx, http.MethodPost, "/me/gifts/unwrap", nil, &g); err != nil {
			fail(err)
		}
		fmt.Printf("from %s: %s\n", g.FromLabel, g.Name)
		fmt.Println(" ", g.Description)
		if g.Message != "" {
			fmt.Printf("  note: %q\n", g.Message)
		}

	case "customize":
		if err := runCustomize(ctx, flag.Args()[1:]); err != nil {
			fail(err)
		}

	case "scenes":
		type sceneRow struct{ ID, Name string }
		rows := []sceneRow{}
		for _, s := range model.Scenes {
			rows = append(rows, sceneRow{ID: string(s), Name: s.Name()})
		}
		printJSON(rows)
		type colorRow struct{ ID, Hex string }
		colors := []colorRow{}
		for _, c := range model.TreeColors {
			colors = append(colors, colorRow{ID: string(c), Hex: c.Hex()})
		}
		printJSON(colors)

	default:
		usage()
	}
}

// showPage renders a page the way the landing view does: countdown banner,
// scene and tree from local prefs, then the pinned messages.
func showPage(ctx context.Context, cli *client, username string) error {
	var pg pageResp
	if err := cli.call(ctx, http.MethodGet, "/pages/"+username, nil, &pg); err != nil {
		return err
	}

	var rem struct {
		Days    int `json:"days"`
		Hours   int `json:"hours"`
		Minutes int `json:"minutes"`
		Seconds int `json:"seconds"`
	}
	if err := cli.call(ctx, http.MethodGet, "/countdown", nil, &rem); err != nil {
		return err
	}

	cust := prefs.Load(username)

	fmt.Printf("%s's JingleBox\n", username)
	fmt.Printf("  %dd %02dh %02dm %02ds until Christmas\n", rem.Days, rem.Hours, rem.Minutes, rem.Seconds)
	fmt.Printf("  scene: %s, tree: %s (%s), ornaments: %d\n",
		cust.Scene.Name(), cust.TreeColor, cust.TreeColor.Hex(), len(cust.PlacedOrnaments))
	fmt.Printf("  %d gift(s) under the tree\n", pg.PendingGifts)

	var msgs []model.Message
	if err := cli.call(ctx, http.MethodGet, "/pages/"+username+"/messages", nil, &msgs); err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("  no messages yet, be the first!")
		return nil
	}
	fmt.Printf("  %d message(s):\n", len(msgs))
	for _, m := range msgs {
		fmt.Printf("    [%.0f,%.0f] %s: %s\n", m.Position.X, m.Position.Y, m.SenderLabel, m.Text)
	}
	return nil
}

// runCustomize edits the local per-page customization file. Applying a change
// shows a short decorating pause that Ctrl-C can abort, leaving the old file
// untouched.
func runCustomize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customize", flag.ExitOnError)
	u := fs.String("u", "", "page username")
	scene := fs.String("scene", "", "scene id, or next/prev")
	tree := fs.String("tree", "", "tree color")
	ornament := fs.String("ornament", "", "kind:x:y to place an ornament")
	reset := fs.Bool("reset", false, "back to defaults")
	show := fs.Bool("show", false, "print current customization")
	delay := fs.Duration("delay", 3*time.Second, "decorating delay")
	_ = fs.Parse(args)

	if *u == "" {
		if tf, err := loadToken(); err == nil && tf.Username != "" {
			*u = tf.Username
		}
	}
	if *u == "" {
		return errors.New("need -u (or login first)")
	}

	cur := prefs.Load(*u)

	if *show && *scene == "" && *tree == "" && *ornament == "" && !*reset {
		printJSON(cur)
		return nil
	}

	if *reset {
		cur = model.DefaultCustomization()
	}

	switch *scene {
	case "":
	case "next":
		cur.Scene = cur.Scene.Next()
	case "prev":
		cur.Scene = cur.Scene.Prev()
	default:
		s, err := model.ParseScene(*scene)
		if err != nil {
			return err
		}
		cur.Scene = s
	}

	if *tree != "" {
		c, err := model.ParseTreeColor(*tree)
		if err != nil {
			return err
		}
		cur.TreeColor = c
	}

	if *ornament != "" {
		parts := strings.SplitN(*ornament, ":", 3)
		if len(parts) != 3 {
			return errors.New("ornament must be kind:x:y")
		}
		kind, err := model.ParseOrnamentKind(parts[0])
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}
		p := model.PlacedOrnament{Kind: kind, X: x, Y: y}
		if !p.InRange() {
			return errors.New("ornament position must be within [0,100]")
		}
		cur.PlacedOrnaments = append(cur.PlacedOrnaments, p)
	}

	if err := waitReveal(ctx, *delay, "decorating your tree"); err != nil {
		fmt.Println("cancelled, nothing saved")
		return nil
	}

	if err := prefs.Save(*u, cur); err != nil {
		return err
	}
	fmt.Printf("saved: %s scene, %s tree, %d ornament(s)\n", cur.Scene.Name(), cur.TreeColor, len(cur.PlacedOrnaments))
	return nil
}
