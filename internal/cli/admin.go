package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/filex"
	"github.com/dmitrijs2005/mj36/internal/models"
)

var errAdminDenied = errors.New("wrong admin code")

const adminUsage = "Usage: admin features | feature <name> on|off | users | deluser <username> | " +
	"screenshots | theme <name> | language <code> | cleanup | reset"

// Admin runs an admin panel command. Users without the admin flag must enter
// the admin code once per login.
func (a *App) Admin(ctx context.Context, args []string) error {
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn(adminUsage)
		return nil
	}

	switch args[0] {
	case "features":
		return a.showFeatures(ctx)
	case "feature":
		if len(args) != 3 || (args[2] != "on" && args[2] != "off") {
			printlnFn(adminUsage)
			return nil
		}
		return a.store.UpdateFeatureStatus(ctx, models.Feature(args[1]), args[2] == "on")
	case "users":
		return a.showUsers(ctx)
	case "deluser":
		if len(args) != 2 {
			printlnFn(adminUsage)
			return nil
		}
		return a.deleteUser(ctx, args[1])
	case "screenshots":
		return a.showScreenshots(ctx)
	case "theme":
		if len(args) != 2 {
			printlnFn(adminUsage)
			return nil
		}
		_, err := a.store.UpdateSettings(ctx, models.SettingsPatch{Theme: models.Ptr(args[1])})
		return err
	case "language":
		if len(args) != 2 {
			printlnFn(adminUsage)
			return nil
		}
		_, err := a.store.UpdateSettings(ctx, models.SettingsPatch{Language: models.Ptr(args[1])})
		return err
	case "cleanup":
		n, err := a.store.Cleanup(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed %d expired entries.\n", n)
		return nil
	case "reset":
		answer, err := getSimpleText(a.reader, "Type RESET to delete everything", a.out)
		if err != nil {
			return err
		}
		if answer != "RESET" {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
		return a.store.Reset(ctx)
	default:
		printlnFn(adminUsage)
		return nil
	}
}

func (a *App) requireAdmin(ctx context.Context) error {
	if a.session.IsAdmin() {
		return nil
	}
	a.mu.Lock()
	granted := a.isAdmin
	a.mu.Unlock()
	if granted {
		return nil
	}

	code, err := getSecret(a.reader, "Admin code", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(code)

	ok, err := a.session.VerifyAdminCode(ctx, string(code))
	if err != nil {
		return err
	}
	if !ok {
		a.logger.Warn(ctx, "admin code rejected")
		return errAdminDenied
	}

	a.mu.Lock()
	a.isAdmin = true
	a.mu.Unlock()
	return nil
}

func (a *App) showFeatures(ctx context.Context) error {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		return err
	}
	for _, f := range []models.Feature{models.FeaturePosts, models.FeatureMessages, models.FeatureStories, models.FeatureWatch, models.FeatureNovels} {
		state := "off"
		if settings.Features.Enabled(f) {
			state = "on"
		}
		fmt.Fprintf(a.out, "%-9s %s\n", f, state)
	}
	return nil
}

func (a *App) showUsers(ctx context.Context) error {
	users, err := a.store.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		role := ""
		if u.IsAdmin {
			role = " (admin)"
		}
		fmt.Fprintf(a.out, "%s%s · last active %s\n", u.Username, role, u.LastActive.Local().Format(timeLayout))
	}
	return nil
}

func (a *App) deleteUser(ctx context.Context, username string) error {
	u, err := a.store.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if me := a.session.CurrentUser(); me != nil && me.ID == u.ID {
		return errors.New("you cannot delete yourself")
	}
	if err := a.store.DeleteUser(ctx, u.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s deleted.\n", username)
	return nil
}

func (a *App) showScreenshots(ctx context.Context) error {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	shots, err := a.store.Screenshots(ctx)
	if err != nil {
		return err
	}
	for _, s := range shots {
		fmt.Fprintf(a.out, "%s %s captured %s\n", s.Timestamp.Local().Format(timeLayout), authorName(doc, s.UserID), s.Page)
	}
	if len(shots) == 0 {
		fmt.Fprintln(a.out, "No screenshots logged.")
	}
	return nil
}

// Export prints the whole document as JSON, or writes it to path.
func (a *App) Export(ctx context.Context, path string) error {
	data, err := a.store.ExportData(ctx)
	if err != nil {
		return err
	}

	// Exports are logged like screen captures.
	if me, err := a.currentUserID(); err == nil {
		if _, err := a.store.AddScreenshot(ctx, me, "export"); err != nil {
			a.logger.Warn(ctx, "failed to log export", "error", err)
		}
	}

	if strings.TrimSpace(path) == "" {
		fmt.Fprintln(a.out, data)
		return nil
	}

	if err := filex.WriteFileAtomic(path, []byte(data+"\n"), 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported to %s.\n", path)
	return nil
}
