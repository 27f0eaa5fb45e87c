package bot

const (
	AddedMessageFormat     = "Noted! You spent %s on %s."
	RangeHeaderFormat      = "Your expenses list starting from %s to %s:"
	RemovePromptMessage    = "Which expense do you wish to remove? Please type in the number of the expense."
	RemovedMessage         = "The selected expense has been successfully deleted."
	NothingToRemoveMessage = "There are no expenses to remove in this range."
	RemovalTimeoutMessage  = "No expense was selected in time, the removal was cancelled."
	SomethingWentWrong     = "Something went wrong, please try again later."
)

const (
	HelpTitle  = "List of Available Commands!"
	HelpColour = 0x88aed0

	helpPersonalName  = "Personal Commands (parameters inside < > are optional)"
	helpPersonalValue = "`!add amount category date` - add an expense\n" +
		"`!summary <start date> <end date>`- view a list of every expense\n" +
		"`!total <start date> <end date>` - view the total amount spent for each category\n" +
		"`!remove <start date> <end date>` - remove an expense"
	helpMiscName  = "Misc Commands"
	helpMiscValue = "`!help` - display available commands"
)
