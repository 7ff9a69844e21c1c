package app

// Command is the mode the binary runs in.
type Command string

const (
	// CommandServe runs the local web UI.
	CommandServe Command = "serve"
	// CommandWhoami prints the identity of the stored session.
	CommandWhoami Command = "whoami"
	// CommandLogout clears the stored session.
	CommandLogout Command = "logout"
)

// ParseCommand reads the subcommand from the command line arguments.
// No argument or an unknown one means CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "whoami":
		return CommandWhoami
	case "logout":
		return CommandLogout
	default:
		return CommandServe
	}
}
