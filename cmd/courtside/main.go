// Courtside is a terminal front end for running an open-play session at the
// desk: the same operations the web UI calls, driven by interactive menus.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"courtflow/internal/config"
	"courtflow/internal/services"
	"courtflow/internal/session"
	"courtflow/internal/store"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func main() {
	// Route slog through pterm so service logs match the rest of the screen.
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load("config.json")
	if err != nil {
		pterm.Error.Printfln("Could not load config: %v", err)
		os.Exit(1)
	}

	rules := session.DefaultRules()
	rules.ShuffleAfterRefill = cfg.ShuffleAfterRefill
	rules.RetainHistoryOnReset = cfg.RetainHistoryOnReset
	svc := services.NewService(store.New(cfg.DataFile, cfg.CourtCount), rules, nil)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Court", pterm.FgGreen.ToStyle()),
		putils.LettersFromStringWithStyle("side", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("State file: %s", cfg.DataFile)

	options := []string{
		"Show courts",
		"Show queue",
		"Show history",
		"Add players",
		"Seed demo players",
		"Record a winner",
		"Fill empty courts",
		"Toggle auto-fill",
		"Reset a court",
		"Reset all courts",
		"Reset everything",
		"Quit",
	}

	for {
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(options).
			WithDefaultText("What now?").
			Show()
		if err != nil {
			pterm.Error.Printfln("Menu failed: %v", err)
			return
		}
		pterm.Println()

		switch choice {
		case "Show courts":
			showCourts(svc)
		case "Show queue":
			showQueue(svc)
		case "Show history":
			showHistory(svc)
		case "Add players":
			addPlayers(svc)
		case "Seed demo players":
			seedPlayers(svc)
		case "Record a winner":
			recordWinner(svc)
		case "Fill empty courts":
			if _, filled, err := svc.FillCourts(); err == nil {
				pterm.Success.Printfln("Filled %d court(s) from the queue", filled)
			}
		case "Toggle auto-fill":
			toggleAutoFill(svc)
		case "Reset a court":
			resetCourt(svc)
		case "Reset all courts":
			if _, err := svc.ResetAllCourts(); err == nil {
				pterm.Success.Println("All courts reset, players moved to the back of the queue")
			}
		case "Reset everything":
			resetEverything(svc)
		case "Quit":
			return
		}
		pterm.Println()
	}
}

func showCourts(svc *services.Service) {
	snap, err := svc.State()
	if err != nil {
		return
	}
	for i, court := range snap.Courts {
		if len(court) == 0 {
			pterm.Info.Printfln("Court %d: empty", i+1)
			continue
		}
		if len(court) < session.CourtSize {
			pterm.Warning.Printfln("Court %d: waiting for players (%s)", i+1, strings.Join(court, ", "))
			continue
		}
		pterm.Println(pterm.Sprintf("Court %d  %s  vs  %s", i+1,
			pterm.Green(strings.Join(court[:2], " & ")),
			pterm.Yellow(strings.Join(court[2:], " & "))))
	}
}

func showQueue(svc *services.Service) {
	snap, err := svc.State()
	if err != nil {
		return
	}
	if len(snap.Queue) == 0 {
		pterm.Info.Println("Nobody waiting")
		return
	}
	for i, name := range snap.Queue {
		pterm.Printfln("%2d. %s (streak %d)", i+1, name, snap.Streaks[name])
	}
}

func showHistory(svc *services.Service) {
	snap, err := svc.State()
	if err != nil {
		return
	}
	if len(snap.History) == 0 {
		pterm.Info.Println("No games played yet")
		return
	}
	rows := pterm.TableData{{"Court", "Winner", "Players"}}
	for _, rec := range snap.History {
		rows = append(rows, []string{
			strconv.Itoa(rec.Court),
			string(rec.TeamWon),
			strings.Join(rec.Players, ", "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// addPlayers mirrors the bulk entry box in the web UI: one name per line,
// blanks skipped, known names ignored.
func addPlayers(svc *services.Service) {
	text, err := pterm.DefaultInteractiveTextInput.
		WithMultiLine().
		WithDefaultText("Enter player names, one per line").
		Show()
	if err != nil {
		return
	}
	names := []string{}
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	if _, added, err := svc.AddPlayers(names); err == nil {
		pterm.Success.Printfln("Added %d player(s)", added)
	}
}

func seedPlayers(svc *services.Service) {
	countText, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("How many demo players?").
		WithDefaultValue("8").
		Show()
	if err != nil {
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil || count <= 0 {
		pterm.Error.Println("That is not a player count")
		return
	}
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, petname.Generate(2, "-"))
	}
	if _, added, err := svc.AddPlayers(names); err == nil {
		pterm.Success.Printfln("Seeded %d demo player(s)", added)
	}
}

func recordWinner(svc *services.Service) {
	snap, err := svc.State()
	if err != nil {
		return
	}
	courts := []string{}
	for i, court := range snap.Courts {
		if len(court) == session.CourtSize {
			courts = append(courts, fmt.Sprintf("Court %d: %s vs %s", i+1,
				strings.Join(court[:2], " & "), strings.Join(court[2:], " & ")))
		}
	}
	if len(courts) == 0 {
		pterm.Warning.Println("No active courts to resolve")
		return
	}

	picked, err := pterm.DefaultInteractiveSelect.WithOptions(courts).Show()
	if err != nil {
		return
	}
	var court int
	fmt.Sscanf(picked, "Court %d", &court)
	court-- // menus show 1-based courts

	side, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{string(session.Team1), string(session.Team2)}).
		WithDefaultText("Who won?").
		Show()
	if err != nil {
		return
	}
	if _, acted, err := svc.Resolve(court, session.Team(side)); err == nil && acted {
		pterm.Success.Printfln("Recorded %s on court %d", side, court+1)
	}
}

func toggleAutoFill(svc *services.Service) {
	snap, err := svc.State()
	if err != nil {
		return
	}
	if _, err := svc.SetAutoFill(!snap.AutoFill); err == nil {
		if snap.AutoFill {
			pterm.Info.Println("Auto-fill is now off")
		} else {
			pterm.Info.Println("Auto-fill is now on")
		}
	}
}

func resetCourt(svc *services.Service) {
	text, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Which court number?").
		Show()
	if err != nil {
		return
	}
	court, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		pterm.Error.Println("That is not a court number")
		return
	}
	if _, err := svc.ResetCourt(court - 1); err != nil {
		pterm.Error.Printfln("Reset failed: %v", err)
		return
	}
	pterm.Success.Printfln("Court %d reset", court)
}

func resetEverything(svc *services.Service) {
	confirmed, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Wipe the roster, queue, courts and streaks?").
		Show()
	if err != nil || !confirmed {
		return
	}
	if _, err := svc.ResetAll(); err == nil {
		pterm.Success.Println("Session reset")
	}
}
