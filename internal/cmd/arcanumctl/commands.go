package arcanumctl

import (
	"context"
	"fmt"
	"io"
	"time"

	arcanum "github.com/arcanumlarp/arcanum-go"
	"github.com/arcanumlarp/arcanum-go/internal/game/character"
)

// runSheet prints one character sheet: stats, credits, and inventory.
func runSheet(ctx context.Context, client *arcanum.Client, args []string, out io.Writer) error {
	characterID, err := parseID(args, 0, "character id")
	if err != nil {
		return err
	}
	sub := client.Character(ctx, characterID)
	defer sub.Close()
	sheet, err := sub.Wait(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (#%d)\n", sheet.Name, sheet.ID)
	fmt.Fprintf(out, "credits: %d  character points: %d\n", sheet.Credits, sheet.CharacterPoints)
	for _, stat := range sheet.PrimaryStats {
		fmt.Fprintf(out, "  %-12s %d/%d\n", stat.Name, sheet.TemporaryStats[stat.Code], stat.Max)
	}
	if len(sheet.Items) > 0 {
		fmt.Fprintln(out, "inventory:")
	}
	for _, item := range sheet.Items {
		marker := " "
		if item.IsEquipped {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s", marker, item.Name)
		if item.ChargesMax > 0 {
			fmt.Fprintf(out, " [%d/%d]", item.ChargesCurrent, item.ChargesMax)
		}
		for _, module := range item.InstalledModules {
			fmt.Fprintf(out, " +%s", module.Name)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// runStat applies a stat change: <character id> <stat code> <consume|add|reset>.
func runStat(ctx context.Context, client *arcanum.Client, args []string, out io.Writer) error {
	characterID, err := parseID(args, 0, "character id")
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("usage: stat <character id> <stat code> <consume|add|reset>")
	}
	code, op := args[1], character.StatOp(args[2])
	switch op {
	case character.StatConsume, character.StatAdd, character.StatReset:
	default:
		return fmt.Errorf("unknown stat op %q", args[2])
	}

	if err := client.ChangeStat(ctx, character.StatChange{
		CharacterID: characterID,
		Code:        code,
		Op:          op,
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s applied\n", code, op)
	return nil
}

// runQueue lists the forging queue for one character.
func runQueue(ctx context.Context, client *arcanum.Client, args []string, out io.Writer) error {
	characterID, err := parseID(args, 0, "character id")
	if err != nil {
		return err
	}
	sub := client.ForgingQueue(ctx, characterID)
	defer sub.Close()
	queue, err := sub.Wait(ctx)
	if err != nil {
		return err
	}

	if len(queue) == 0 {
		fmt.Fprintln(out, "forging queue is empty")
		return nil
	}
	now := time.Now()
	for _, entry := range queue {
		if entry.Ready(now) {
			fmt.Fprintf(out, "  #%d %s (ready)\n", entry.ID, entry.Name)
			continue
		}
		fmt.Fprintf(out, "  #%d %s (ready in %s)\n", entry.ID, entry.Name, entry.CompletesAt.Sub(now).Round(time.Second))
	}
	return nil
}

// runCollect collects one finished forging entry.
func runCollect(ctx context.Context, client *arcanum.Client, args []string, out io.Writer) error {
	characterID, err := parseID(args, 0, "character id")
	if err != nil {
		return err
	}
	entryID, err := parseID(args, 1, "entry id")
	if err != nil {
		return err
	}
	if err := client.CollectForging(ctx, characterID, entryID); err != nil {
		return err
	}
	fmt.Fprintf(out, "collected entry #%d\n", entryID)
	return nil
}

// runShop lists the shop items.
func runShop(ctx context.Context, client *arcanum.Client, out io.Writer) error {
	sub := client.ShopItems(ctx)
	defer sub.Close()
	items, err := sub.Wait(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Fprintf(out, "  #%d %-20s %d credits", item.ID, item.Name, item.CostCredits)
		if item.Stock >= 0 {
			fmt.Fprintf(out, " (%d left)", item.Stock)
		}
		fmt.Fprintln(out)
	}
	return nil
}
