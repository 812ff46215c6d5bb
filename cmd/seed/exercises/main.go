package main

import (
	"context"
	"time"

	"github.com/mansoorceksport/coachbook/internal/config"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/mansoorceksport/coachbook/internal/logging"
	"github.com/mansoorceksport/coachbook/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// drills is the baseline library inserted into an empty database.
var drills = []domain.Exercise{
	// Infield
	{Name: "Backhand rolling", Section: "infield", Difficulty: 2, Duration: 10, Description: "Rolled balls to the glove side, field on the backhand and set the feet."},
	{Name: "Double play feeds", Section: "infield", Difficulty: 3, Duration: 15, Description: "Short and second base feeds with the pivot at the bag."},
	{Name: "Slow roller charge", Section: "infield", Difficulty: 3, Duration: 10, Description: "Charge, barehand pick and throw on the run to first."},
	{Name: "Rundown", Section: "infield", Difficulty: 2, Duration: 15, Description: "Two fielders run the runner back with at most one throw."},

	// Outfield
	{Name: "Drop step", Section: "outfield", Difficulty: 1, Duration: 10, Description: "First step read on balls hit over the head."},
	{Name: "Crow hop throws", Section: "outfield", Difficulty: 2, Duration: 15, Description: "Field through the ball, crow hop and hit the cutoff."},
	{Name: "Fence work", Section: "outfield", Difficulty: 4, Duration: 20, Description: "Find the warning track and the wall before the catch."},

	// Pitching
	{Name: "Long toss", Section: "pitching", Difficulty: 1, Duration: 25, Description: "Progressive distance throwing on a line."},
	{Name: "Pickoff moves", Section: "pitching", Difficulty: 3, Duration: 15, Description: "Move to first and second from the stretch."},
	{Name: "Bullpen 30 pitches", Section: "pitching", Difficulty: 4, Duration: 30, Description: "Fastball command then secondary pitches by count."},

	// Catching
	{Name: "Blocking", Section: "catching", Difficulty: 3, Duration: 15, Description: "Balls in the dirt, keep the ball in front."},
	{Name: "Framing", Section: "catching", Difficulty: 2, Duration: 10, Description: "Receive the edges and hold the glove still."},

	// Hitting
	{Name: "Tee work", Section: "hitting", Difficulty: 0, Duration: 20, Description: "Inside, middle and outside tee positions."},
	{Name: "Bunting", Section: "hitting", Difficulty: 1, Duration: 15, Description: "Sacrifice and drag bunts down both lines."},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(logging.SetupParams{LogLevel: cfg.Log.Level, LogFormatJSON: cfg.Log.JSON})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	if err := repository.EnsureExerciseIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create exercise indexes: %v", err)
	}
	repo := repository.NewMongoExerciseRepository(db)

	created := 0
	for i := range drills {
		ex := drills[i]
		n, err := repo.Count(ctx, domain.ExerciseFilter{Section: ex.Section, Name: ex.Name})
		if err != nil {
			log.Fatalf("failed to check %s: %v", ex.Name, err)
		}
		if n > 0 {
			log.Infof("skipping existing exercise: %s", ex.Name)
			continue
		}
		if err := repo.Create(ctx, &ex); err != nil {
			log.Errorf("error creating %s: %v", ex.Name, err)
			continue
		}
		created++
		log.WithFields(log.Fields{"id": ex.ID, "section": ex.Section}).Infof("created: %s", ex.Name)
	}
	log.Infof("seeding exercises complete, %d created", created)
}
