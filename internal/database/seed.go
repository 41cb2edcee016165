package database

// SampleTask is one entry of the sample data set.
type SampleTask struct {
	Title        string
	Description  string
	CategoryName string
}

// SampleCategoryNames are the categories created by the seed command.
var SampleCategoryNames = []string{
	"Work", "Personal", "Shopping", "Health", "Education",
	"Travel", "Hobbies", "Fitness", "Finance", "Technology",
}

// SampleTasks reference categories by name so seeding does not depend on
// which ids the storage engine assigns.
var SampleTasks = []SampleTask{
	{"Finish report", "Complete the project report", "Work"},
	{"Buy groceries", "Get vegetables and fruits", "Personal"},
	{"Attend meeting", "Participate in the project update meeting", "Shopping"},
	{"Call client", "Follow up with the client regarding the proposal", "Health"},
	{"Schedule appointment", "Book a doctor's appointment", "Education"},
	{"Write email", "Send the weekly progress email", "Travel"},
	{"Clean house", "Tidy up the living room and kitchen", "Hobbies"},
	{"Prepare presentation", "Create slides for the upcoming presentation", "Fitness"},
	{"Workout", "Do a 30-minute workout", "Finance"},
	{"Read book", "Finish the first chapter of the book", "Technology"},
}
