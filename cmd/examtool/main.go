// Package main is the entry point for the exam question selector CLI.
//
// The tool reads every TB_<n>.pdf in the bank directory exactly once,
// classifies the questions against the chapter registry, then serves any
// number of selections from memory: interactively through menus, or in
// one shot when -chapters is given on the command line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/config"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/export"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/registry"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/selector"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/classify"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/extract"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/pdf"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// maxDisplayChars caps how much of a question the terminal shows.
// Saved files always contain the full text.
const maxDisplayChars = 800

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Step 1: Load Configuration (.env and environment first, flags on top)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	var (
		dir         = flag.String("dir", cfg.BankDir, "directory containing TB_<n>.pdf test banks")
		courseIn    = flag.String("course", cfg.DefaultCourse, "course to select for (AB or BC); prompts when empty")
		chaptersIn  = flag.String("chapters", "", "chapters to select, e.g. 1,3-5; runs one shot instead of the menu")
		count       = flag.Int("n", -1, "maximum questions for -chapters runs (0 = all)")
		outFile     = flag.String("out", cfg.OutputFile, "output file for -chapters runs")
		format      = flag.String("format", cfg.Format, "export format: txt or json")
		workers     = flag.Int("workers", cfg.WorkerCount, "concurrent bank readers")
		regFile     = flag.String("registry", cfg.RegistryFile, "YAML file overriding the built-in chapter tables")
		stats       = flag.Bool("stats", false, "print extraction statistics and exit")
		verbose     = flag.Bool("verbose", false, "show the keywords behind each chapter tag in results")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("examtool %s\n", Version)
		return
	}

	log.Printf("🚀 Exam question selector %s starting...", Version)

	if !export.ValidFormat(*format) {
		log.Fatalf("❌ Invalid export format %q (supported: %s)", *format, strings.Join(export.Formats(), ", "))
	}

	// Step 2: Chapter registry — built-in tables unless a file overrides them
	reg := registry.Default()
	if *regFile != "" {
		reg, err = registry.LoadFile(*regFile)
		if err != nil {
			log.Fatalf("❌ Failed to load registry: %v", err)
		}
		log.Printf("📖 Chapter registry loaded from %s", *regFile)
	}

	// Step 3: Discover test banks
	banks, err := extract.DiscoverBanks(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to scan %s: %v", *dir, err)
	}
	if len(banks) == 0 {
		log.Printf("⚠️  No test banks (TB_<n>.pdf) found in %s", *dir)
	} else {
		names := make([]string, len(banks))
		for i, b := range banks {
			names[i] = b.Name
		}
		log.Printf("📚 Found %d test banks: %s", len(banks), strings.Join(names, ", "))
	}

	// Step 4: Extract every bank once. Selections below never re-read
	// the PDFs; they filter the in-memory result.
	svc, err := extract.New(reg, pdf.FileOpener{}, *workers)
	if err != nil {
		log.Fatalf("❌ Failed to build extraction pipeline: %v", err)
	}
	res := svc.ExtractAll(banks)

	// Step 5: Stats mode (ETC-6)
	if *stats {
		printStats(res, reg, *courseIn)
		return
	}

	sel := selector.New(reg)

	// Step 6: One shot via flags, or the interactive menu
	if *chaptersIn != "" {
		runOnce(sel, res, reg, *courseIn, *chaptersIn, *count, *outFile, *format, *verbose)
		return
	}
	runInteractive(sel, res, reg, *courseIn, *outFile, *format, *verbose)
}

// runOnce serves a single scripted selection: no prompts, validation
// failures exit non-zero so shell pipelines notice.
func runOnce(sel *selector.Service, res *extract.Result, reg *registry.Registry, courseIn, chaptersIn string, count int, outPath, format string, verbose bool) {
	if courseIn == "" {
		log.Fatalf("❌ -course is required with -chapters")
	}
	course, err := models.ParseCourse(courseIn)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	ids, err := selector.ParseChapters(chaptersIn)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if count < 0 {
		count = 0 // flag not given; retrieve everything
	}

	req := models.SelectionRequest{Course: course, Chapters: ids, Limit: count}
	questions, err := sel.Select(res, req)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	displayResults(questions, course, explainer(reg, course, verbose))

	if len(questions) == 0 {
		return
	}
	if err := export.Save(outPath, formatForFile(outPath, format), questions, req); err != nil {
		log.Fatalf("❌ Failed to save results: %v", err)
	}
	fmt.Printf("\nResults saved to %s\n", outPath)
}

// runInteractive drives the menu flow: course, chapters, count, results,
// optional save, then offers another round against the same extraction.
func runInteractive(sel *selector.Service, res *extract.Result, reg *registry.Registry, courseFlag, defaultOut, defaultFormat string, verbose bool) {
	in := bufio.NewScanner(os.Stdin)

	printBanner("AP CALCULUS QUESTION SELECTOR")

	for {
		course := pickCourse(in, courseFlag)
		ids := promptChapters(in, sel, reg, course)

		fmt.Printf("\nSelected chapters: %s\n", joinInts(ids))
		for _, id := range ids {
			fmt.Printf("  Chapter %d: %s\n", id, reg.Title(course, id))
		}

		limit := promptCount(in)

		printBanner("SEARCHING...")

		req := models.SelectionRequest{Course: course, Chapters: ids, Limit: limit}
		questions, err := sel.Select(res, req)
		if err != nil {
			// The prompts validate as they go; reaching this means a bug.
			log.Fatalf("❌ Selection failed: %v", err)
		}

		displayResults(questions, course, explainer(reg, course, verbose))

		if len(questions) > 0 {
			saveDialog(in, questions, req, defaultOut, defaultFormat)
		}

		if !promptYesNo(in, "\nRun another selection? (y/n): ") {
			break
		}
	}
	fmt.Println("\nGoodbye!")
}

// pickCourse honors the -course flag when it parses; otherwise prompts.
func pickCourse(in *bufio.Scanner, courseFlag string) models.Course {
	if courseFlag != "" {
		if course, err := models.ParseCourse(courseFlag); err == nil {
			fmt.Printf("\nCourse: AP Calculus %s\n", course)
			return course
		}
		fmt.Printf("\nIgnoring invalid course %q.\n", courseFlag)
	}
	return promptCourse(in)
}

func promptCourse(in *bufio.Scanner) models.Course {
	fmt.Println("\nSelect Course:")
	fmt.Println("1. AP Calculus AB")
	fmt.Println("2. AP Calculus BC")

	for {
		choice := promptLine(in, "\nEnter choice (1 or 2): ")
		switch choice {
		case "1":
			return models.CourseAB
		case "2":
			return models.CourseBC
		}
		fmt.Println("Invalid choice. Please enter 1 or 2.")
	}
}

// promptChapters shows the chapter menu for the course and loops until
// the input parses and every chapter exists in the course.
func promptChapters(in *bufio.Scanner, sel *selector.Service, reg *registry.Registry, course models.Course) []int {
	chapters, err := reg.Chapters(course)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Printf("\nAvailable Chapters for AP Calculus %s:\n", course)
	fmt.Println(strings.Repeat("-", 80))
	for _, ch := range chapters {
		fmt.Printf("  %d. %s\n", ch.ID, ch.Title)
	}

	fmt.Println("\nSelect Chapters:")
	fmt.Println("Enter chapter numbers separated by commas (e.g., 1,2,3)")
	fmt.Println("Or enter a range (e.g., 1-4)")

	for {
		line := promptLine(in, "\nYour selection: ")
		ids, err := selector.ParseChapters(line)
		if err == nil {
			err = sel.Validate(models.SelectionRequest{Course: course, Chapters: ids})
		}
		if err != nil {
			fmt.Printf("%v. Please try again.\n", err)
			continue
		}
		return ids
	}
}

func promptCount(in *bufio.Scanner) int {
	fmt.Println("\nNumber of Questions:")

	for {
		line := promptLine(in, "Enter the number of questions to retrieve (0 for all): ")
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Println("Invalid input. Please enter a number.")
			continue
		}
		if n < 0 {
			fmt.Println("Please enter a non-negative number.")
			continue
		}
		return n
	}
}

// saveDialog mirrors the classic save flow: confirm, name the file
// (empty keeps the default), infer the format from the extension.
func saveDialog(in *bufio.Scanner, questions []models.Question, req models.SelectionRequest, defaultOut, defaultFormat string) {
	if !promptYesNo(in, "Would you like to save the results to a file? (y/n): ") {
		return
	}
	filename := promptLine(in, fmt.Sprintf("Enter filename (default: %s): ", defaultOut))
	if filename == "" {
		filename = defaultOut
	}
	if err := export.Save(filename, formatForFile(filename, defaultFormat), questions, req); err != nil {
		fmt.Printf("Error saving results: %v\n", err)
		return
	}
	fmt.Printf("\nResults saved to %s\n", filename)
}

// explainer builds the keyword explainer for verbose output, or nil when
// verbose is off.
func explainer(reg *registry.Registry, course models.Course, verbose bool) *classify.Classifier {
	if !verbose {
		return nil
	}
	c, err := classify.New(reg, course)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	return c
}

// displayResults prints matches the way the terminal has always shown
// them: delimited blocks, long questions truncated. With an explainer,
// each block also names the keywords behind its tags.
func displayResults(questions []models.Question, course models.Course, explain *classify.Classifier) {
	rule := strings.Repeat("=", 80)

	fmt.Println("\n" + rule)
	fmt.Println("SEARCH RESULTS")
	fmt.Println(rule)

	if len(questions) == 0 {
		fmt.Println("\nNo questions found matching the selected criteria.")
		return
	}

	fmt.Printf("\nFound %d matching questions:\n\n", len(questions))

	for i, q := range questions {
		fmt.Println("\n" + rule)
		fmt.Printf("Question %d:\n", i+1)
		fmt.Printf("Source: %s, Page %d\n", q.SourceBank, q.PageNumber)
		fmt.Printf("Topics: %s\n", export.TopicsLine(q.TagsFor(course)))
		if explain != nil {
			if hits := explain.Explain(q.Text); len(hits) > 0 {
				fmt.Printf("Keywords: %s\n", keywordSummary(hits))
			}
		}
		fmt.Println(strings.Repeat("-", 80))
		fmt.Println(truncate(q.Text, maxDisplayChars))
	}
	fmt.Printf("\n%s\n\n", rule)
}

// keywordSummary flattens an Explain result into one line, chapters in
// ascending order: `Chapter 1 [limit]; Chapter 4 [motion, velocity]`.
func keywordSummary(hits map[int][]string) string {
	ids := make([]int, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("Chapter %d [%s]", id, strings.Join(hits[id], ", "))
	}
	return strings.Join(parts, "; ")
}

// printStats reports per-bank yield, diagnostics, and the chapter
// distribution. With no -course flag it covers both courses.
func printStats(res *extract.Result, reg *registry.Registry, courseFlag string) {
	courses := models.Courses()
	if courseFlag != "" {
		course, err := models.ParseCourse(courseFlag)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		courses = []models.Course{course}
	}

	printBanner("EXTRACTION STATISTICS")

	fmt.Println("\nQuestions per test bank:")
	for _, bc := range res.BankCounts() {
		fmt.Printf("  %s: %d\n", bc.Bank, bc.Questions)
	}
	fmt.Printf("Total questions: %d\n", len(res.Questions))

	if len(res.Diagnostics) > 0 {
		fmt.Println("\nProblems encountered:")
		for _, d := range res.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	}

	for _, course := range courses {
		chapters, err := reg.Chapters(course)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		dist := res.ChapterDistribution(course)

		fmt.Printf("\nQuestions per chapter (AP Calculus %s):\n", course)
		for _, ch := range chapters {
			fmt.Printf("  Chapter %d (%s): %d\n", ch.ID, ch.Title, dist[ch.ID])
		}
	}
	fmt.Println()
}

func printBanner(title string) {
	rule := strings.Repeat("=", 80)
	fmt.Println("\n" + rule)
	fmt.Println(title)
	fmt.Println(rule)
}

// promptLine prints a prompt and returns the trimmed answer. EOF on
// stdin (piped input running out, Ctrl-D) ends the session cleanly.
func promptLine(in *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !in.Scan() {
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}
	return strings.TrimSpace(in.Text())
}

func promptYesNo(in *bufio.Scanner, prompt string) bool {
	answer := strings.ToLower(promptLine(in, prompt))
	return answer == "y" || answer == "yes"
}

// formatForFile infers the export format from the file extension,
// falling back to the configured default for anything unfamiliar.
func formatForFile(filename, fallback string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".txt":
		return "txt"
	}
	return fallback
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
