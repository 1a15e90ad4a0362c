package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/architect/mathquest/internal/common/database"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/store"
	"github.com/architect/mathquest/pkg/config"
)

var (
	dbType = flag.String("db-type", "sqlite", "Database type: sqlite or postgres")
	dbPath = flag.String("output", "./data/mathquest.db", "SQLite database path")
	conn   = flag.String("conn", "", "PostgreSQL DSN (used with -db-type=postgres)")
)

func main() {
	flag.Parse()

	dbCfg := config.DatabaseConfig{Type: *dbType, DSN: *conn}
	if *dbType == "sqlite" {
		os.MkdirAll("./data", 0755)
		dbCfg.DSN = *dbPath + "?mode=rwc&cache=shared&timeout=5000"
		dbCfg.Path = *dbPath
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	s := store.NewGormStore(db)
	ctx := context.Background()

	log.Println("Seeding syllabus...")

	topicCount, lessonCount, quizCount := seedSyllabus(ctx, s)
	log.Printf("Created %d topics, %d lessons, %d quizzes", topicCount, lessonCount, quizCount)

	achievementCount := seedAchievements(ctx, s)
	log.Printf("Created %d achievements", achievementCount)

	seedDemoUser(ctx, s)
	log.Println("Seeding complete")
}

type lessonSeed struct {
	title       string
	description string
	content     string
	videoURL    string
	videoSecs   int
}

type topicSeed struct {
	title       string
	description string
	difficulty  string
	estimated   int
	rating      int
	locked      bool
	lessons     []lessonSeed
}

var syllabus = []topicSeed{
	{
		title:       "Arithmetic Foundations",
		description: "Whole numbers, place value and the four operations",
		difficulty:  models.DifficultyBeginner,
		estimated:   120,
		rating:      47,
		lessons: []lessonSeed{
			{title: "Place Value", description: "Reading and writing large numbers", content: "Every digit in a number has a value determined by its position...", videoURL: "videos/arith-place-value.mp4", videoSecs: 420},
			{title: "Addition and Subtraction", description: "Column methods and regrouping", content: "Line up the digits by place value before adding...", videoURL: "videos/arith-add-sub.mp4", videoSecs: 510},
			{title: "Multiplication", description: "Times tables and long multiplication", content: "Multiplication is repeated addition...", videoURL: "videos/arith-mult.mp4", videoSecs: 600},
			{title: "Division", description: "Sharing, grouping and long division", content: "Division splits a quantity into equal parts...", videoURL: "videos/arith-div.mp4", videoSecs: 640},
		},
	},
	{
		title:       "Fractions and Decimals",
		description: "Representing and computing with parts of a whole",
		difficulty:  models.DifficultyBeginner,
		estimated:   150,
		rating:      45,
		lessons: []lessonSeed{
			{title: "Understanding Fractions", description: "Numerators, denominators and equivalence", content: "A fraction names part of a whole...", videoURL: "videos/frac-intro.mp4", videoSecs: 480},
			{title: "Adding Fractions", description: "Common denominators", content: "To add fractions, first find a common denominator...", videoURL: "videos/frac-add.mp4", videoSecs: 530},
			{title: "Decimals", description: "Decimal notation and rounding", content: "Decimals extend place value to the right of the units...", videoURL: "videos/frac-decimals.mp4", videoSecs: 450},
		},
	},
	{
		title:       "Linear Equations",
		description: "Solving first-degree equations in one variable",
		difficulty:  models.DifficultyIntermediate,
		estimated:   180,
		rating:      44,
		lessons: []lessonSeed{
			{title: "Balancing Equations", description: "Do the same to both sides", content: "An equation stays true as long as both sides receive the same operation...", videoURL: "videos/linear-balance.mp4", videoSecs: 540},
			{title: "Variables on Both Sides", description: "Collecting like terms", content: "Move the variable terms to one side before isolating...", videoURL: "videos/linear-both-sides.mp4", videoSecs: 580},
			{title: "Word Problems", description: "Translating sentences into equations", content: "Identify the unknown, name it, and express the relationships...", videoURL: "videos/linear-word.mp4", videoSecs: 620},
		},
	},
	{
		title:       "Quadratic Equations",
		description: "Factoring, completing the square and the quadratic formula",
		difficulty:  models.DifficultyAdvanced,
		estimated:   240,
		rating:      42,
		lessons: []lessonSeed{
			{title: "Factoring Quadratics", description: "Product-sum factoring", content: "A quadratic ax^2+bx+c can often be written as a product of two binomials...", videoURL: "videos/quad-factor.mp4", videoSecs: 660},
			{title: "Completing the Square", description: "Rewriting into vertex form", content: "Half the coefficient of x, square it, and balance the equation...", videoURL: "videos/quad-complete.mp4", videoSecs: 700},
			{title: "The Quadratic Formula", description: "Deriving and applying the formula", content: "The roots of ax^2+bx+c=0 are given by the quadratic formula...", videoURL: "videos/quad-formula.mp4", videoSecs: 720},
		},
	},
	{
		title:       "Trigonometry Basics",
		description: "Right-triangle ratios and the unit circle",
		difficulty:  models.DifficultyAdvanced,
		estimated:   210,
		rating:      40,
		locked:      true,
		lessons: []lessonSeed{
			{title: "Sine, Cosine, Tangent", description: "Ratios in right triangles", content: "In a right triangle, sine is opposite over hypotenuse...", videoURL: "videos/trig-ratios.mp4", videoSecs: 640},
			{title: "The Unit Circle", description: "Angles beyond 90 degrees", content: "Placing a triangle inside a circle of radius one extends the ratios to any angle...", videoURL: "videos/trig-unit-circle.mp4", videoSecs: 680},
		},
	},
}

func seedSyllabus(ctx context.Context, s store.Store) (int, int, int) {
	topics, lessons, quizzes := 0, 0, 0

	for order, seed := range syllabus {
		topic := &models.Topic{
			Title:            seed.title,
			Description:      seed.description,
			Difficulty:       seed.difficulty,
			EstimatedMinutes: seed.estimated,
			LessonsCount:     len(seed.lessons),
			Rating:           seed.rating,
			DisplayOrder:     order + 1,
			Locked:           seed.locked,
		}
		if err := s.CreateTopic(ctx, topic); err != nil {
			log.Fatalf("Failed to seed topic %q: %v", seed.title, err)
		}
		topics++

		for i, ls := range seed.lessons {
			videoURL := ls.videoURL
			videoSecs := ls.videoSecs
			lesson := &models.Lesson{
				TopicID:              topic.ID,
				Title:                ls.title,
				Description:          ls.description,
				Content:              ls.content,
				VideoURL:             &videoURL,
				VideoDurationSeconds: &videoSecs,
				OrderInTopic:         i + 1,
			}
			if err := s.CreateLesson(ctx, lesson); err != nil {
				log.Fatalf("Failed to seed lesson %q: %v", ls.title, err)
			}
			lessons++

			if err := s.CreateQuiz(ctx, checkQuiz(topic.ID, lesson.ID, ls.title)); err != nil {
				log.Fatalf("Failed to seed quiz for %q: %v", ls.title, err)
			}
			quizzes++
		}
	}

	return topics, lessons, quizzes
}

// checkQuiz builds a small knowledge-check quiz attached to a lesson
func checkQuiz(topicID, lessonID uint, lessonTitle string) *models.Quiz {
	timeLimit := 300
	return &models.Quiz{
		TopicID:          &topicID,
		LessonID:         &lessonID,
		Title:            lessonTitle + " Check",
		Description:      "Quick check on " + lessonTitle,
		PointsReward:     50,
		TimeLimitSeconds: &timeLimit,
		Questions: []models.Question{
			{
				Prompt:        "Which statement about " + lessonTitle + " is correct?",
				CorrectOption: 0,
				OrderInQuiz:   1,
				Options: []models.Option{
					{Text: "The method described in the lesson", OrderInList: 1},
					{Text: "A common misconception", OrderInList: 2},
					{Text: "An unrelated technique", OrderInList: 3},
					{Text: "None of the above", OrderInList: 4},
				},
			},
			{
				Prompt:        "Apply the technique from " + lessonTitle + " to the practice example.",
				CorrectOption: 2,
				OrderInQuiz:   2,
				Options: []models.Option{
					{Text: "Answer A", OrderInList: 1},
					{Text: "Answer B", OrderInList: 2},
					{Text: "Answer C", OrderInList: 3},
					{Text: "Answer D", OrderInList: 4},
				},
			},
		},
	}
}

func seedAchievements(ctx context.Context, s store.Store) int {
	catalog := []models.Achievement{
		{
			Slug:         "week-warrior",
			Title:        "Week Warrior",
			Description:  "Study seven days in a row",
			Icon:         "🔥",
			Requirement:  models.RequirementStreak7Days,
			PointsReward: 200,
		},
		{
			Slug:         "quiz-master",
			Title:        "Quiz Master",
			Description:  "Score 90% or better on five quizzes",
			Icon:         "🏆",
			Requirement:  models.RequirementQuiz90Percent5Times,
			PointsReward: 300,
		},
		{
			Slug:         "speed-learner",
			Title:        "Speed Learner",
			Description:  "Complete three lessons within one hour",
			Icon:         "⚡",
			Requirement:  models.RequirementLessons3In1Hour,
			PointsReward: 150,
		},
	}

	for i := range catalog {
		if err := s.CreateAchievement(ctx, &catalog[i]); err != nil {
			log.Fatalf("Failed to seed achievement %q: %v", catalog[i].Slug, err)
		}
	}
	return len(catalog)
}

func seedDemoUser(ctx context.Context, s store.Store) {
	user := &models.User{
		Username:    "demo",
		Email:       "demo@example.com",
		DisplayName: "Demo Learner",
		Level:       1,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Created demo user (id=%d)", user.ID)
}
