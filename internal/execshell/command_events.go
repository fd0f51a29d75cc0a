package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandPlanned notifies observers that a command would run outside of dry-run mode.
	CommandPlanned(command ShellCommand)
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports timeouts and launch failures that prevented an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}
