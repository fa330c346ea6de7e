package main

import (
	"github.com/NomadCrew/feedback-board/internal/command"
)

func main() {
	command.Main(
		"feedbackctl", "a feedback board terminal client",
		command.ListCommand(),
		command.UsersCommand(),
		command.AllCommand(),
		command.SubmitCommand(),
		command.EditCommand(),
		command.DeleteCommand(),
	)
}
