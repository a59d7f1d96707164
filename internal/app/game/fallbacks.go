package game

// fallbackQuestions keeps the game going when the completion service fails
// or keeps repeating itself.
var fallbackQuestions = []string{
	"What's something that you've changed your mind about recently, and why?",
	"What personal quality do you appreciate most in yourself?",
	"What's a skill you'd love to master in the next few years?",
	"What's a small moment from your life that had a big impact on who you are today?",
	"What's a belief you hold that most people disagree with?",
	"What's something you wish more people understood about you?",
	"If you could give advice to your younger self, what would it be?",
	"What's a challenge you've faced that ended up being valuable?",
	"What's something you're curious about but haven't explored yet?",
	"What's a compliment someone gave you that you particularly value?",
	"What values or principles guide your decisions?",
	"What's a meaningful goal you're working toward right now?",
	"What's a question you've been asking yourself lately?",
	"What makes you feel most alive or energized?",
	"What's a meaningful connection or relationship in your life?",
}
