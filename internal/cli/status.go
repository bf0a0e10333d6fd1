// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - The status command.

package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/session"
	"github.com/jeranaias/neurogo-tui/internal/util"
)

// statusTimeout bounds the three status fetches together.
const statusTimeout = 10 * time.Second

// HandleStatus prints API health, the provider list, per-known-provider
// availability, and the current provider. The fetches run concurrently; a
// failed fetch shows in its own section and does not fail the command.
func HandleStatus(ctx context.Context, env *Env) error {
	sess, err := env.NewSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	if err := sess.Sync(ctx); err != nil {
		env.Logger.Debug("status fetch incomplete", zap.Error(err))
	}

	st := sess.Snapshot()
	if env.Args.JSON {
		return NewJSONResponse("status", statusData(st)).Write(env.Out)
	}
	printStatus(env, st)
	return nil
}

func statusData(st session.State) StatusData {
	d := StatusData{
		Online:       st.Online(),
		API:          st.HealthLabel(),
		Framework:    st.Health.Framework,
		Version:      st.Health.Version,
		Providers:    append([]string{}, st.Providers...),
		Current:      st.Current.Label(),
		CurrentToken: st.Current.Token,
		Known:        make([]KnownProvider, 0, len(st.Badges)),
	}
	if st.HealthErr != nil {
		d.HealthError = st.HealthErr.Error()
	}
	if st.ProvidersErr != nil {
		d.ProvidersError = st.ProvidersErr.Error()
	}
	for _, b := range st.Badges {
		d.Known = append(d.Known, KnownProvider{ID: b.ID, Available: b.Available})
	}
	return d
}

func printStatus(env *Env, st session.State) {
	w := env.Out
	fmt.Fprintln(w, TitleStyle.Render("NeuroGO Status"))
	fmt.Fprintln(w, RenderSeparator())

	health := st.HealthLabel()
	if st.Online() && st.Health.Framework != "" {
		health += DimStyle.Render(fmt.Sprintf(" (%s %s)", st.Health.Framework, st.Health.Version))
	}
	fmt.Fprintf(w, "%s %s\n", RenderStatus(st.Online()), health)
	fmt.Fprintf(w, "     %s\n", DimStyle.Render(env.Config.Server.BaseURL))

	headline, detail := st.ProviderSummary()
	fmt.Fprintf(w, "\n%s\n", headline)
	if detail != "" {
		fmt.Fprintf(w, "     %s\n", DimStyle.Render(detail))
	}

	if len(st.Badges) > 0 {
		fmt.Fprintln(w)
		for _, b := range st.Badges {
			state := ErrorStyle.Render("Unavailable")
			if b.Available {
				state = SuccessStyle.Render("Available")
			}
			fmt.Fprintf(w, "  %s %s\n", util.PadRight(b.ID, 12), state)
		}
	}

	fmt.Fprintf(w, "\nCurrent: %s\n", st.Current.Label())
}
