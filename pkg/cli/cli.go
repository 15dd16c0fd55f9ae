package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  /  - select and apply a transform")
	fmt.Println("  o  - open another image at runtime")
	fmt.Println("  s  - save current image")
	fmt.Println("  r  - write a PDF report")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// Run starts the interactive loop on proc. When the process was invoked
// with an argument it is opened before the prompt appears; it may be a file
// path or a procedural spec like "sample:gradient" or "sample:noise:320x240".
func Run(proc raster.Processor) {
	store := NewMetaStore(raster.Commands)
	session := raster.NewSession(proc)

	if len(os.Args) >= 2 {
		if err := openInto(session, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}

	fmt.Println("pixlab — terminal image lab")
	usage()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		r, _, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "read input error: %v\n", err)
			continue
		}

		switch r {
		case '/':
			runCommandFlow(session, store)

		case 's':
			if !session.Loaded() {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := PromptLine("Enter output filename: ")
			if out == "" {
				fmt.Println("no filename provided")
				continue
			}
			if err := SaveImage(out, session.Dst); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write image: %v\n", err)
				continue
			}
			fmt.Printf("Saved to %s\n", out)

		case 'o':
			selected, selErr := SelectFileWithFzf(".")
			var newPath string
			if selErr != nil || selected == "" {
				newPath, _ = PromptLine("Enter path to image to open (leave empty to cancel): ")
				if newPath == "" {
					fmt.Println("open cancelled")
					continue
				}
			} else {
				newPath = selected
			}
			if err := openInto(session, newPath); err != nil {
				fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", newPath, err)
				continue
			}

		case 'r':
			if !session.Loaded() {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := PromptLine("Enter report filename (default report.pdf): ")
			if out == "" {
				out = "report.pdf"
			}
			if err := WriteReport(out, session); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
				continue
			}
			fmt.Printf("Report written to %s\n", out)

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return

		default:
			// ignore other keys
		}
	}
}

// openInto loads path into the session and refreshes the preview and the
// luminance summary.
func openInto(session *raster.Session, path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	if err := session.SetImage(img, path, format); err != nil {
		return err
	}
	fmt.Printf("Opened %s\n", path)
	// Preview is best-effort; the summary always prints.
	_ = PreviewImage(session.Dst, session.Format)
	fmt.Println(SummarizeLuma(session.Dst))
	return nil
}

// runCommandFlow drives one '/' invocation: pick a command, prompt for its
// arguments, validate, run it through the session, and refresh the display.
func runCommandFlow(session *raster.Session, store *MetaStore) {
	commandName := pickCommand()
	if commandName == "" {
		return
	}
	c, ok := store.Lookup(commandName)
	if !ok {
		fmt.Printf("unknown command: %s\n", commandName)
		return
	}

	// colorinfo needs no image; everything else does.
	if commandName != "colorinfo" && !session.Loaded() {
		fmt.Println("No image loaded. Press 'o' to open an image first, or provide an image path as the first argument.")
		return
	}

	tooltip, _, _ := store.GetCommandHelp(commandName)
	fmt.Println("\n" + tooltip + "\n")

	rawArgs := make([]string, len(c.Args))
	for i, p := range c.Args {
		typeLabel := p.Type
		if p.Type == "enum" {
			if opts := enumOptionsByParam[p.Name]; len(opts) > 0 {
				typeLabel = fmt.Sprintf("enum(%s)", strings.Join(opts, "|"))
			}
		}
		val, perr := PromptLine(fmt.Sprintf("%s (%s): ", p.Name, typeLabel))
		if perr != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", perr)
			val = ""
		}
		rawArgs[i] = val
	}

	normArgs, err := store.NormalizeArgs(commandName, rawArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input validation error: %v\n", err)
		fmt.Println("aborting command due to input errors")
		return
	}

	if commandName == "colorinfo" {
		info, err := FormatColorInfo(normArgs[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "colorinfo error: %v\n", err)
			return
		}
		fmt.Println(info)
		return
	}

	out, note, err := session.Apply(commandName, normArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apply command error: %v\n", err)
		return
	}
	fmt.Printf("Applied %s\n", commandName)
	if note != "" {
		fmt.Println(note)
	}
	if out != nil {
		_ = PreviewImage(out, session.Format)
	}
	fmt.Println(SummarizeLuma(session.Dst))
}

// pickCommand selects a registry command via fzf when available, falling
// back to a numbered textual list. Returns "" when the selection was
// cancelled.
func pickCommand() string {
	name, err := SelectCommandWithFzf(raster.Commands)
	if err == nil && name != "" {
		return name
	}

	// fzf unavailable or returned nothing — fall back to a textual selection list.
	fmt.Println("Command selection (fallback):")
	for i, c := range raster.Commands {
		fmt.Printf("  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, _ := PromptLine("Enter number or command name (leave empty to cancel): ")
	if selection == "" {
		fmt.Println("selection cancelled")
		return ""
	}
	if idx, perr := strconv.Atoi(selection); perr == nil {
		if idx < 1 || idx > len(raster.Commands) {
			fmt.Println("invalid selection")
			return ""
		}
		return raster.Commands[idx-1].Name
	}
	selLower := strings.ToLower(selection)
	for _, c := range raster.Commands {
		if strings.ToLower(c.Name) == selLower {
			return c.Name
		}
	}
	var matches []string
	for _, c := range raster.Commands {
		if strings.HasPrefix(strings.ToLower(c.Name), selLower) {
			matches = append(matches, c.Name)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}
	if len(matches) > 1 {
		fmt.Println("ambiguous selection, candidates:")
		for _, m := range matches {
			fmt.Println("  " + m)
		}
		return ""
	}
	fmt.Printf("unknown command: %s\n", selection)
	return ""
}
