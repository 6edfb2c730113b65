package bot

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/vbot/core/logger"
	tg "github.com/m3rciful/vbot/core/telegram"
	"github.com/m3rciful/vbot/core/telegram/commands"
	"github.com/m3rciful/vbot/core/telegram/helpers"
	"github.com/m3rciful/vbot/report"

	"log/slog"
	tele "gopkg.in/telebot.v4"
)

const (
	defaultReportDays = 1
	maxReportDays     = 365
)

const startText = `Hi! I keep track of group messages and run quick polls.

/getreport [days] - CSV of message activity (admins only)
/newpoll [question] - publish an Up/Down poll`

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Show help",
	})
	reg.RegisterCommand("/getreport", commands.Command{
		Handler:     a.handleGetReport,
		Description: "Message activity report as CSV",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/newpoll", commands.Command{
		Handler:     a.handleNewPoll,
		Description: "Publish an Up/Down poll",
		AdminOnly:   true,
	})
}

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, startText)
}

func (a *App) handleGetReport(c tele.Context) error {
	days, err := parseReportDays(commandPayload(c))
	if err != nil {
		return helpers.SendText(c, err.Error())
	}

	ctx := helpers.BuildContext(c)
	rows, err := a.store.FetchMessageReport(ctx, c.Sender().ID, days)
	if err != nil {
		logger.SVCReports.Error("report fetch failed",
			slog.String("event", "report"),
			slog.Int("days", days),
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, "Could not build the report, try again later.")
	}

	rep := report.Build(rows)
	if rep.Empty() {
		return helpers.SendText(c, "No messages recorded for that period.")
	}
	data, err := rep.EncodeCSV()
	if err != nil {
		return err
	}

	logger.SVCReports.Info("report built",
		slog.String("event", "report"),
		slog.Int("days", days),
		slog.Int("rows", len(rep.Rows)),
	)
	return helpers.SendDocument(c, bytes.NewReader(data), "report.csv", "text/csv")
}

// parseReportDays validates the optional day-count argument. An empty
// argument defaults to one day; anything non-numeric or outside [0, 365] is
// a user error, not a system one.
func parseReportDays(arg string) (int, error) {
	if arg == "" {
		return defaultReportDays, nil
	}
	days, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of days", arg)
	}
	if days < 0 || days > maxReportDays {
		return 0, fmt.Errorf("days must be between 0 and %d", maxReportDays)
	}
	return days, nil
}

// commandPayload extracts the argument text after the command token. Telebot
// fills Message.Payload for command endpoints; text-routed invocations fall
// back to splitting the raw text.
func commandPayload(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return strings.TrimSpace(m.Payload)
	}
	text := strings.TrimSpace(c.Text())
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}
