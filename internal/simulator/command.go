// Package simulator drives a league from command scripts and random traffic.
package simulator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/plains/internal/domain/league"
)

// Command names accepted in scripts.
const (
	OpAddTeam         = "add_team"
	OpAddJockey       = "add_jockey"
	OpUpdateMatch     = "update_match"
	OpMergeTeams      = "merge_teams"
	OpUniteByRecord   = "unite_by_record"
	OpGetJockeyRecord = "get_jockey_record"
	OpGetTeamRecord   = "get_team_record"
)

var arity = map[string]int{
	OpAddTeam:         1,
	OpAddJockey:       2,
	OpUpdateMatch:     2,
	OpMergeTeams:      2,
	OpUniteByRecord:   1,
	OpGetJockeyRecord: 1,
	OpGetTeamRecord:   1,
}

// Command is one league operation with its integer arguments.
type Command struct {
	Op   string
	Args []int
	Line int // source line, zero for generated commands
}

func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Op)
	for _, a := range c.Args {
		parts = append(parts, strconv.Itoa(a))
	}
	return strings.Join(parts, " ")
}

// IsQuery reports whether the command returns a value.
func (c Command) IsQuery() bool {
	return c.Op == OpGetJockeyRecord || c.Op == OpGetTeamRecord
}

// ParseScript reads one command per line. Blank lines and text after '#'
// are ignored.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		c, err := parseCommand(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		c.Line = n
		cmds = append(cmds, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

func parseCommand(fields []string) (Command, error) {
	op := strings.ToLower(fields[0])
	want, ok := arity[op]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownOp, fields[0])
	}
	if len(fields)-1 != want {
		return Command{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrSyntax, op, want, len(fields)-1)
	}
	c := Command{Op: op, Args: make([]int, want)}
	for i, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s argument %d: %q is not an integer", ErrSyntax, op, i+1, f)
		}
		c.Args[i] = v
	}
	return c, nil
}

// Apply executes c against l.
func Apply(l *league.League, c Command) league.Output {
	switch c.Op {
	case OpAddTeam:
		return league.Output{Status: l.AddTeam(c.Args[0])}
	case OpAddJockey:
		return league.Output{Status: l.AddJockey(c.Args[0], c.Args[1])}
	case OpUpdateMatch:
		return league.Output{Status: l.UpdateMatch(c.Args[0], c.Args[1])}
	case OpMergeTeams:
		return league.Output{Status: l.MergeTeams(c.Args[0], c.Args[1])}
	case OpUniteByRecord:
		return league.Output{Status: l.UniteByRecord(c.Args[0])}
	case OpGetJockeyRecord:
		return l.JockeyRecord(c.Args[0])
	case OpGetTeamRecord:
		return l.TeamRecord(c.Args[0])
	default:
		return league.Output{Status: league.InvalidInput}
	}
}

// Format renders an outcome as "op: STATUS" or "op: SUCCESS, value" for
// successful queries.
func Format(c Command, out league.Output) string {
	if c.IsQuery() && out.Status == league.Success {
		return fmt.Sprintf("%s: %s, %d", c.Op, out.Status, out.Value)
	}
	return fmt.Sprintf("%s: %s", c.Op, out.Status)
}
