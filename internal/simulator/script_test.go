package simulator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/okian/plains/internal/domain/league"
	. "github.com/smartystreets/goconvey/convey"
)

const leagueScript = `add_team 1
add_team 2
add_team 1
add_jockey 10 1
add_jockey 11 1
add_jockey 20 2
update_match 10 20
update_match 11 20
update_match 10 11
get_jockey_record 10
get_team_record 1
get_team_record 2
unite_by_record 2
get_team_record 1
get_team_record 2
merge_teams 1 1
get_jockey_record 99
`

const leagueOutput = `add_team: SUCCESS
add_team: SUCCESS
add_team: FAILURE
add_jockey: SUCCESS
add_jockey: SUCCESS
add_jockey: SUCCESS
update_match: SUCCESS
update_match: SUCCESS
update_match: FAILURE
get_jockey_record: SUCCESS, 1
get_team_record: SUCCESS, 2
get_team_record: SUCCESS, -2
unite_by_record: SUCCESS
get_team_record: SUCCESS, 0
get_team_record: FAILURE
merge_teams: INVALID_INPUT
get_jockey_record: FAILURE
`

func TestRunScript(t *testing.T) {
	Convey("Given a league script", t, func() {
		var out bytes.Buffer

		Convey("When it runs", func() {
			err := RunScript(context.Background(), strings.NewReader(leagueScript), &out)

			Convey("Then every command prints its outcome", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, leagueOutput)
			})
		})

		Convey("When the arena is capped", func() {
			err := RunScript(context.Background(), strings.NewReader("add_team 1\nadd_team 2\n"), &out, league.WithMaxNodes(1))

			Convey("Then additions past the cap report ALLOCATION_ERROR", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "add_team: SUCCESS\nadd_team: ALLOCATION_ERROR\n")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := RunScript(ctx, strings.NewReader(leagueScript), &out)

			Convey("Then nothing runs", func() {
				So(err, ShouldNotBeNil)
				So(out.Len(), ShouldEqual, 0)
			})
		})
	})
}
