// cmd/stylist/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"outfit-workers/internal/bootstrap"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/advisor"
	"outfit-workers/internal/stylist/catalog"
)

const rule = "=================================================="

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}
	// Logs would interleave with the prompts.
	log := logger.NewStructured("error", "console")

	fmt.Println("⏳ Loading model...")
	stylist, err := bootstrap.NewStylist(context.Background(), cfg, nil, log)
	if err != nil {
		fmt.Printf("❌ Error: %v\nRun the model-trainer tool first, or set model.train_on_missing.\n", err)
		os.Exit(1)
	}
	defer stylist.Close()
	fmt.Println("✅ System Ready!")

	if err := run(context.Background(), os.Stdin, os.Stdout, stylist.Advisor); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// run asks for one request on in and prints the style guide to out.
func run(ctx context.Context, in io.Reader, out io.Writer, adv *advisor.Advisor) error {
	p := &prompter{scanner: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "👔 SMART CLOTHING RECOMMENDATION SYSTEM 👗")
	fmt.Fprintln(out, rule)

	city := p.ask("📍 Enter your City: ")
	fmt.Fprintf(out, "\nSelect Event: [%s]\n", strings.Join(catalog.Occasions, ", "))
	event := p.ask("🎉 Enter Event Type: ")
	fmt.Fprintf(out, "\nSelect Skin Tone: [%s]\n", strings.Join(catalog.SkinTones, ", "))
	skin := p.ask("🎨 Enter Skin Tone: ")
	fmt.Fprintf(out, "\nSelect Undertone: [%s]\n", strings.Join(catalog.Undertones, ", "))
	undertone := p.ask("💧 Enter Undertone: ")
	if err := p.scanner.Err(); err != nil {
		return err
	}
	if city == "" {
		return fmt.Errorf("city is required")
	}

	fmt.Fprintf(out, "\n🌍 Fetching weather for %s...\n", city)
	rec := adv.Recommend(ctx, models.StyleRequest{
		City:      city,
		Occasion:  event,
		SkinTone:  skin,
		Undertone: undertone,
	})
	printGuide(out, rec)
	return nil
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *prompter) ask(label string) string {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

func printGuide(out io.Writer, rec *models.Recommendation) {
	fmt.Fprintf(out, "   -> It is %.1f°C and '%s'\n", rec.Temperature, rec.Weather)
	if rec.IsFallback() {
		fmt.Fprintln(out, "   (some answers use defaults)")
	}

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "🌟 YOUR PERSONALIZED STYLE GUIDE 🌟")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "🌡️  Context:       %s Weather (%.1f°C) | %s\n", rec.Weather, rec.Temperature, rec.Occasion)
	fmt.Fprintf(out, "🧥  Outfit:        %s\n", rec.Outfit)
	fmt.Fprintf(out, "    Top:           %s\n", rec.Pieces[0])
	fmt.Fprintf(out, "    Bottom:        %s\n", rec.Pieces[1])
	fmt.Fprintf(out, "    Extra:         %s\n", rec.Pieces[2])
	fmt.Fprintln(out, strings.Repeat("-", len(rule)))

	pal := rec.Palette
	fmt.Fprintf(out, "%s  Season:        %s (%s)\n", pal.Symbol, pal.Season, pal.Description)
	power := make([]string, 0, len(pal.PowerOrder))
	for _, c := range pal.PowerColors() {
		power = append(power, fmt.Sprintf("%s %s", c.Name, c.Hex))
	}
	fmt.Fprintf(out, "🎨  Power Colors:  %s\n", strings.Join(power, ", "))
	fmt.Fprintf(out, "✅  Best Colors:   %s\n", strings.Join(rec.Colors.Best, ", "))
	fmt.Fprintf(out, "❌  Avoid Colors:  %s\n", strings.Join(rec.Colors.Avoid, ", "))
	fmt.Fprintf(out, "%s\n\n", rule)
}
