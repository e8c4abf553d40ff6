package services

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// matchOutcome is the 1/X/2 result used for prediction grading. A shootout
// breaks a level score for outcome purposes only.
func matchOutcome(m *models.Match) (models.MatchOutcome, bool) {
	if m.Status != models.MatchStatusFinished || m.HomeScore == nil || m.AwayScore == nil {
		return "", false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return models.OutcomeHome, true
	case *m.AwayScore > *m.HomeScore:
		return models.OutcomeAway, true
	}
	if m.HasShootout && m.HomeShootoutScore != nil && m.AwayShootoutScore != nil {
		if *m.HomeShootoutScore > *m.AwayShootoutScore {
			return models.OutcomeHome, true
		}
		if *m.AwayShootoutScore > *m.HomeShootoutScore {
			return models.OutcomeAway, true
		}
	}
	return models.OutcomeDraw, true
}

// countsForStandings filters the finished-match set feeding the standings
// table: knockout-stage matches only count when the format says so.
func countsForStandings(format models.SeasonFormat, m *models.Match) bool {
	if m.Status != models.MatchStatusFinished || m.HomeScore == nil || m.AwayScore == nil {
		return false
	}
	if m.SeriesID != nil && !format.CountsKnockoutMatches() {
		return false
	}
	return true
}

type headToHead struct {
	points, goalDiff, goalsFor int
}

// buildStandings recomputes the whole standings table from the finished
// matches. Every participant gets a row, clubs that left the field do not.
// Order: points, goal difference, then head-to-head points, head-to-head
// goal difference and head-to-head goals for; club id keeps the sort stable.
func buildStandings(seasonID int, format models.SeasonFormat, participantClubIDs []int, matches []*models.Match) []*models.ClubSeasonStats {
	byClub := make(map[int]*models.ClubSeasonStats, len(participantClubIDs))
	for _, clubID := range participantClubIDs {
		byClub[clubID] = &models.ClubSeasonStats{SeasonID: seasonID, ClubID: clubID}
	}

	type pairKey struct{ a, b int }
	h2h := make(map[pairKey]*headToHead)
	h2hFor := func(a, b int) *headToHead {
		key := pairKey{a, b}
		if _, ok := h2h[key]; !ok {
			h2h[key] = &headToHead{}
		}
		return h2h[key]
	}

	for _, m := range matches {
		if !countsForStandings(format, m) {
			continue
		}
		home, homeOK := byClub[m.HomeClubID]
		away, awayOK := byClub[m.AwayClubID]
		if !homeOK || !awayOK {
			// Stale match of a club no longer in the field.
			continue
		}
		hs, as := *m.HomeScore, *m.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs

		hh := h2hFor(m.HomeClubID, m.AwayClubID)
		ha := h2hFor(m.AwayClubID, m.HomeClubID)
		hh.goalDiff += hs - as
		hh.goalsFor += hs
		ha.goalDiff += as - hs
		ha.goalsFor += as

		switch {
		case hs > as:
			home.Wins++
			home.Points += pointsWin
			away.Losses++
			hh.points += pointsWin
		case as > hs:
			away.Wins++
			away.Points += pointsWin
			home.Losses++
			ha.points += pointsWin
		default:
			home.Draws++
			away.Draws++
			home.Points += pointsDraw
			away.Points += pointsDraw
			hh.points += pointsDraw
			ha.points += pointsDraw
		}
	}

	rows := make([]*models.ClubSeasonStats, 0, len(byClub))
	for _, row := range byClub {
		row.GoalDiff = row.GoalsFor - row.GoalsAgainst
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		ab := h2h[pairKey{a.ClubID, b.ClubID}]
		ba := h2h[pairKey{b.ClubID, a.ClubID}]
		if ab != nil && ba != nil {
			if ab.points != ba.points {
				return ab.points > ba.points
			}
			if ab.goalDiff != ba.goalDiff {
				return ab.goalDiff > ba.goalDiff
			}
			if ab.goalsFor != ba.goalsFor {
				return ab.goalsFor > ba.goalsFor
			}
		}
		return a.ClubID < b.ClubID
	})
	for i, row := range rows {
		row.Rank = i + 1
	}
	return rows
}

// buildPlayerSeasonStats derives per-player season rows from match events
// and lineup appearances of the finished matches.
func buildPlayerSeasonStats(seasonID int, events []*models.MatchEvent, lineups []*models.Lineup) []*models.PlayerSeasonStats {
	type key struct{ clubID, playerID int }
	byPlayer := make(map[key]*models.PlayerSeasonStats)
	rowFor := func(clubID, playerID int) *models.PlayerSeasonStats {
		k := key{clubID, playerID}
		if _, ok := byPlayer[k]; !ok {
			byPlayer[k] = &models.PlayerSeasonStats{SeasonID: seasonID, ClubID: clubID, PlayerID: playerID}
		}
		return byPlayer[k]
	}

	for _, l := range lineups {
		rowFor(l.ClubID, l.PlayerID).Matches++
	}
	for _, e := range events {
		row := rowFor(e.ClubID, e.PlayerID)
		switch e.Type {
		case models.EventGoal:
			row.Goals++
			if e.AssistPlayerID != nil {
				rowFor(e.ClubID, *e.AssistPlayerID).Assists++
			}
		case models.EventYellowCard:
			row.YellowCards++
		case models.EventSecondYellow:
			row.YellowCards++
			row.RedCards++
		case models.EventRedCard:
			row.RedCards++
		}
	}

	rows := make([]*models.PlayerSeasonStats, 0, len(byPlayer))
	for _, row := range byPlayer {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ClubID != rows[j].ClubID {
			return rows[i].ClubID < rows[j].ClubID
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}

// buildDisqualifications replays the season's finished matches in date order
// and derives the full suspension set: active bans of a club advance one
// missed match per finished match that club plays, dismissals open new bans,
// and a season yellow total at a threshold multiple opens an accumulated-cards
// ban. Accrual runs before a match's own dismissals, so a ban earned in a
// match never counts that match as missed. Being a pure rebuild, refinalizing
// any match converges to the same set.
func buildDisqualifications(seasonID int, matches []*models.Match, eventsByMatch map[int][]*models.MatchEvent) []*models.Disqualification {
	ordered := make([]*models.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	bans := make([]*models.Disqualification, 0)
	hasActive := func(playerID int, reason models.DisqualificationReason) bool {
		for _, b := range bans {
			if b.Active && b.PlayerID == playerID && b.Reason == reason {
				return true
			}
		}
		return false
	}
	open := func(playerID, clubID int, reason models.DisqualificationReason) {
		if hasActive(playerID, reason) {
			return
		}
		bans = append(bans, &models.Disqualification{
			SeasonID:   seasonID,
			PlayerID:   playerID,
			ClubID:     intPtr(clubID),
			Reason:     reason,
			BanMatches: reason.BanLength(),
			Active:     true,
		})
	}

	yellows := make(map[int]int)
	for _, m := range ordered {
		for _, b := range bans {
			if !b.Active || b.ClubID == nil {
				continue
			}
			if *b.ClubID != m.HomeClubID && *b.ClubID != m.AwayClubID {
				continue
			}
			b.MissedMatches++
			if b.MissedMatches >= b.BanMatches {
				b.Active = false
			}
		}

		for _, e := range eventsByMatch[m.ID] {
			switch e.Type {
			case models.EventRedCard:
				open(e.PlayerID, e.ClubID, models.ReasonRedCard)
			case models.EventSecondYellow:
				yellows[e.PlayerID]++
				open(e.PlayerID, e.ClubID, models.ReasonSecondYellow)
			case models.EventYellowCard:
				yellows[e.PlayerID]++
			}
		}
		for _, e := range eventsByMatch[m.ID] {
			if e.Type != models.EventYellowCard {
				continue
			}
			if yellows[e.PlayerID]%models.YellowCardThreshold == 0 {
				open(e.PlayerID, e.ClubID, models.ReasonAccumulatedCards)
			}
		}
	}
	return bans
}

// buildCareerStats sums season rows per player per club and reconciles the
// result against the current roster: every rostered player keeps a row even
// with nothing recorded yet.
func buildCareerStats(seasonRows []*models.PlayerSeasonStats, rosterPlayers []*models.Player) []*models.PlayerCareerStats {
	type key struct{ clubID, playerID int }
	byPlayer := make(map[key]*models.PlayerCareerStats)
	rowFor := func(clubID, playerID int) *models.PlayerCareerStats {
		k := key{clubID, playerID}
		if _, ok := byPlayer[k]; !ok {
			byPlayer[k] = &models.PlayerCareerStats{ClubID: clubID, PlayerID: playerID}
		}
		return byPlayer[k]
	}

	for _, p := range rosterPlayers {
		if p.ClubID != nil {
			rowFor(*p.ClubID, p.ID)
		}
	}
	for _, s := range seasonRows {
		row := rowFor(s.ClubID, s.PlayerID)
		row.Matches += s.Matches
		row.Goals += s.Goals
		row.Assists += s.Assists
		row.YellowCards += s.YellowCards
		row.RedCards += s.RedCards
	}

	rows := make([]*models.PlayerCareerStats, 0, len(byPlayer))
	for _, row := range byPlayer {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ClubID != rows[j].ClubID {
			return rows[i].ClubID < rows[j].ClubID
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}
