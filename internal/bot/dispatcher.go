// internal/bot/dispatcher.go
//
// Maps chat messages to game operations.
//
// Commands (case-insensitive, Chinese aliases in parentheses):
//
//	wordle [n]                     start a letter game (猜单词)
//	equation [n|normal|special]    start an equation game (猜算式)
//	idiom                          start an idiom game (猜成语)
//	guess <text>                   explicit guess (猜)
//	give up                        abandon the running game (放弃)
//	rank [wins|games|rate]         this scope's leaderboard (排行)
//	global rank [wins|games|rate]  leaderboard across all scopes (总排行)
//	wordbank [name]                show or select the word bank (词库)
//	category [name]                show or select the equation category (类别)
//	enable | disable               toggle games in a group, admins only (开启/关闭)
//
// Anything else is treated as a bare guess when a game is running and the
// text has the shape of an answer for that game; otherwise it is ignored.
// The same holds for a command word sent alone, except enable/disable.
// In a disabled group only "enable" is honoured.

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/leaderboard"
)

const defaultRankLimit = 10

// Event is one inbound chat message.
type Event struct {
	Scope    string
	Private  bool
	Admin    bool
	UserID   string
	UserName string
	Text     string
}

// Dispatcher routes events to the orchestrators.
type Dispatcher struct {
	games    map[game.Variant]*Orchestrator
	sessions SessionStore
	settings Settings
	rankings Rankings
	catalog  CorpusCatalog
	logger   zerolog.Logger
}

// DispatcherDeps are the collaborators of a Dispatcher.
type DispatcherDeps struct {
	Games    []*Orchestrator
	Sessions SessionStore
	Settings Settings
	Rankings Rankings
	Catalog  CorpusCatalog
	Logger   *zerolog.Logger
}

// NewDispatcher wires a dispatcher over the given orchestrators.
func NewDispatcher(d DispatcherDeps) *Dispatcher {
	logger := log.Logger
	if d.Logger != nil {
		logger = *d.Logger
	}
	games := make(map[game.Variant]*Orchestrator, len(d.Games))
	for _, g := range d.Games {
		games[g.Variant()] = g
	}
	return &Dispatcher{
		games:    games,
		sessions: d.Sessions,
		settings: d.Settings,
		rankings: d.Rankings,
		catalog:  d.Catalog,
		logger:   logger,
	}
}

// Handle processes ev. ok is false when the message is not meant for the
// bot and nothing should be sent back.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) (reply Reply, ok bool) {
	text := strings.TrimSpace(ev.Text)
	if text == "" || ev.Scope == "" {
		return Reply{}, false
	}
	cmd, arg := splitCommand(text)

	if !ev.Private {
		if cmd == "enable" || cmd == "disable" {
			return d.toggle(ctx, ev, cmd == "enable"), true
		}
		on, err := d.settings.Enabled(ctx, ev.Scope)
		if err != nil {
			d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("load enablement flag")
			return Reply{Text: genericFailure}, true
		}
		if !on {
			return Reply{}, false
		}
	}

	// A lone command word that also fits the running game ("guess" in a
	// five-letter game) is played as a guess.
	if cmd != "" && arg == "" {
		if r, ok := d.guess(ctx, ev, text, false); ok {
			return r, true
		}
	}

	switch cmd {
	case "wordle":
		return d.start(ctx, ev, game.VariantLetter, arg)
	case "equation":
		return d.start(ctx, ev, game.VariantEquation, arg)
	case "idiom":
		return d.start(ctx, ev, game.VariantIdiom, arg)
	case "guess":
		if arg == "" {
			return Reply{Text: "Usage: guess <answer>"}, true
		}
		return d.guess(ctx, ev, arg, true)
	case "giveup":
		return d.abandon(ctx, ev)
	case "rank":
		return d.rank(ctx, ev, arg, false), true
	case "globalrank":
		return d.rank(ctx, ev, arg, true), true
	case "wordbank":
		return d.wordbank(ctx, ev, arg), true
	case "category":
		return d.category(ctx, ev, arg), true
	}
	return d.guess(ctx, ev, text, false)
}

var aliases = map[string]string{
	"wordle": "wordle", "猜单词": "wordle",
	"equation": "equation", "猜算式": "equation",
	"idiom": "idiom", "猜成语": "idiom",
	"guess": "guess", "猜": "guess",
	"give up": "giveup", "giveup": "giveup", "abandon": "giveup", "放弃": "giveup",
	"rank": "rank", "排行": "rank",
	"global rank": "globalrank", "globalrank": "globalrank", "总排行": "globalrank",
	"wordbank": "wordbank", "词库": "wordbank",
	"category": "category", "类别": "category",
	"enable": "enable", "开启": "enable",
	"disable": "disable", "关闭": "disable",
}

// splitCommand recognises a leading command word (or two-word command) and
// returns its canonical name and the remaining argument.
func splitCommand(text string) (cmd, arg string) {
	fields := strings.Fields(text)
	if len(fields) >= 2 {
		if c, ok := aliases[strings.ToLower(fields[0]+" "+fields[1])]; ok {
			return c, strings.Join(fields[2:], " ")
		}
	}
	if c, ok := aliases[strings.ToLower(fields[0])]; ok {
		return c, strings.Join(fields[1:], " ")
	}
	return "", text
}

func (d *Dispatcher) start(ctx context.Context, ev Event, v game.Variant, arg string) (Reply, bool) {
	g, ok := d.games[v]
	if !ok {
		return Reply{}, false
	}
	req := StartRequest{Scope: ev.Scope, Private: ev.Private}
	if arg != "" {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			req.Length = n
		} else if v == game.VariantEquation && d.catalog.HasCategory(strings.ToLower(arg)) {
			req.Category = strings.ToLower(arg)
		} else {
			return Reply{Text: fmt.Sprintf("I don't understand %q here.", arg)}, true
		}
	}
	return g.Start(ctx, req), true
}

// guess routes a guess to the game running in the scope. Bare messages are
// only taken when they look like an answer for that game.
func (d *Dispatcher) guess(ctx context.Context, ev Event, text string, explicit bool) (Reply, bool) {
	s, err := d.sessions.Get(ctx, ev.Scope)
	if err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("load session for routing")
		if explicit {
			return Reply{Text: genericFailure}, true
		}
		return Reply{}, false
	}
	if s == nil || !s.Active() {
		if explicit {
			return Reply{Text: "No game is running here. Start one first."}, true
		}
		return Reply{}, false
	}
	g, ok := d.games[s.Variant]
	if !ok {
		return Reply{}, false
	}
	if !explicit && !looksLikeAnswer(s, g.rules.normalize(text)) {
		return Reply{}, false
	}
	return g.Guess(ctx, GuessRequest{
		Scope:      ev.Scope,
		Private:    ev.Private,
		PlayerID:   ev.UserID,
		PlayerName: ev.UserName,
		Text:       text,
	}), true
}

// looksLikeAnswer filters chatter out of bare-message guesses.
func looksLikeAnswer(s *game.Session, text string) bool {
	if utf8.RuneCountInString(text) != s.AnswerLength {
		return false
	}
	switch s.Variant {
	case game.VariantLetter:
		for _, r := range text {
			if r < 'a' || r > 'z' {
				return false
			}
		}
		return true
	case game.VariantEquation:
		return strings.Count(text, "=") == 1
	case game.VariantIdiom:
		for _, r := range text {
			if !unicode.Is(unicode.Han, r) {
				return false
			}
		}
		return true
	}
	return false
}

func (d *Dispatcher) abandon(ctx context.Context, ev Event) (Reply, bool) {
	s, err := d.sessions.Get(ctx, ev.Scope)
	if err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("load session for routing")
		return Reply{Text: genericFailure}, true
	}
	if s == nil || !s.Active() {
		return Reply{Text: "No game is running here."}, true
	}
	g, ok := d.games[s.Variant]
	if !ok {
		return Reply{}, false
	}
	return g.Abandon(ctx, ev.Scope, ev.Private), true
}

func (d *Dispatcher) rank(ctx context.Context, ev Event, arg string, global bool) Reply {
	key, ok := leaderboard.ParseSortKey(arg)
	if !ok {
		return Reply{Text: "Sort by wins, games or rate."}
	}
	if !global && ev.Private {
		return Reply{Text: "Private games are not ranked. Try \"global rank\"."}
	}

	var (
		entries []leaderboard.Entry
		err     error
		title   string
	)
	if global {
		entries, err = d.rankings.GlobalRanking(ctx, key, defaultRankLimit)
		title = "Global leaderboard"
	} else {
		entries, err = d.rankings.Ranking(ctx, ev.Scope, key, defaultRankLimit)
		title = "Leaderboard"
	}
	if err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Bool("global", global).Msg("load ranking")
		return Reply{Text: genericFailure}
	}
	return Reply{Text: FormatRanking(title, key, entries)}
}

// FormatRanking renders a ranking as numbered lines.
func FormatRanking(title string, key leaderboard.SortKey, entries []leaderboard.Entry) string {
	if len(entries) == 0 {
		if key == leaderboard.SortRate {
			return fmt.Sprintf("%s: nobody has played %d games yet.", title, leaderboard.MinGamesForRate)
		}
		return title + ": no games recorded yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (by %s)", title, key)
	for i, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = e.PlayerID
		}
		fmt.Fprintf(&sb, "\n%d. %s  wins %d  games %d  rate %.2f%%", i+1, name, e.Wins, e.GamesPlayed, e.WinRate())
	}
	return sb.String()
}

func (d *Dispatcher) wordbank(ctx context.Context, ev Event, arg string) Reply {
	name := strings.ToLower(strings.TrimSpace(arg))
	if name == "" {
		cur, err := d.settings.Wordbank(ctx, ev.Scope)
		if err != nil {
			d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("load word bank selection")
			return Reply{Text: genericFailure}
		}
		if cur == "" {
			cur = "default"
		}
		return Reply{Text: fmt.Sprintf("Word bank: %s. Available: %s.", cur, strings.Join(d.catalog.Banks(), ", "))}
	}
	if !d.catalog.HasBank(name) {
		return Reply{Text: fmt.Sprintf("Unknown word bank %q. Available: %s.", name, strings.Join(d.catalog.Banks(), ", "))}
	}
	if err := d.settings.SetWordbank(ctx, ev.Scope, name); err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("save word bank selection")
		return Reply{Text: genericFailure}
	}
	return Reply{Text: fmt.Sprintf("Word bank set to %s.", name)}
}

func (d *Dispatcher) category(ctx context.Context, ev Event, arg string) Reply {
	name := strings.ToLower(strings.TrimSpace(arg))
	if name == "" {
		cur, err := d.settings.Category(ctx, ev.Scope)
		if err != nil {
			d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("load category selection")
			return Reply{Text: genericFailure}
		}
		if cur == "" {
			cur = "normal"
		}
		return Reply{Text: fmt.Sprintf("Equation category: %s. Available: %s.", cur, strings.Join(d.catalog.Categories(), ", "))}
	}
	if !d.catalog.HasCategory(name) {
		return Reply{Text: fmt.Sprintf("Unknown category %q. Available: %s.", name, strings.Join(d.catalog.Categories(), ", "))}
	}
	if err := d.settings.SetCategory(ctx, ev.Scope, name); err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("save category selection")
		return Reply{Text: genericFailure}
	}
	return Reply{Text: fmt.Sprintf("Equation category set to %s.", name)}
}

func (d *Dispatcher) toggle(ctx context.Context, ev Event, on bool) Reply {
	if !ev.Admin {
		return Reply{Text: "Only group admins can do that."}
	}
	if err := d.settings.SetEnabled(ctx, ev.Scope, on); err != nil {
		d.logger.Error().Err(err).Str("scope", ev.Scope).Msg("save enablement flag")
		return Reply{Text: genericFailure}
	}
	d.logger.Info().Str("scope", ev.Scope).Bool("enabled", on).Msg("scope toggled")
	if on {
		return Reply{Text: "Games enabled."}
	}
	return Reply{Text: "Games disabled."}
}
