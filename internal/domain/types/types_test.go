package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/eventmatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPreferenceSet(t *testing.T) {
	Convey("Given a batch request body", t, func() {
		body := `[{"name":"alice","preferences":{"gathering_size":"party","vibe_preferences":["chill"]}},{"name":"bob","preferences":{}}]`

		Convey("When it is decoded", func() {
			var sets []types.PreferenceSet
			err := json.Unmarshal([]byte(body), &sets)

			Convey("Then each set keeps its name and preferences", func() {
				So(err, ShouldBeNil)
				So(sets, ShouldHaveLength, 2)
				So(sets[0].Name, ShouldEqual, "alice")
				So(sets[0].Preferences.GatheringSize, ShouldEqual, "party")
				So(sets[0].Preferences.VibePreferences, ShouldResemble, []string{"chill"})
				So(sets[1].Preferences.IsEmpty(), ShouldBeTrue)
			})

			Convey("And Names keeps request order", func() {
				So(types.Names(sets), ShouldResemble, []string{"alice", "bob"})
			})
		})

		Convey("When there are no sets", func() {
			So(types.Names(nil), ShouldBeEmpty)
		})
	})
}

func TestRankingResult(t *testing.T) {
	Convey("Given a ranking result", t, func() {
		result := types.RankingResult{Name: "alice"}

		Convey("When it is encoded", func() {
			data, err := json.Marshal(result)

			Convey("Then the name and ranking are present", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"name":"alice"`)
				So(string(data), ShouldContainSubstring, `"ranking":`)
			})
		})
	})
}
