package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	echoapi "github.com/trezcool/ligi/apps/api/echo"
	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/post"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/standings"
	"github.com/trezcool/ligi/core/team"
	"github.com/trezcool/ligi/core/user"
	emailsvc "github.com/trezcool/ligi/services/email"
	logsvc "github.com/trezcool/ligi/services/logger"
	"github.com/trezcool/ligi/storage/database"
	sqlxrepos "github.com/trezcool/ligi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	teamRepo := sqlxrepos.NewTeamRepository(db)
	grpRepo := sqlxrepos.NewGroupRepository(db)
	resRepo := sqlxrepos.NewResultRepository(db)
	postRepo := sqlxrepos.NewPostRepository(db)

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	teamSvc := team.NewService(teamRepo)
	grpSvc := group.NewService(grpRepo, teamRepo)
	resSvc := result.NewService(resRepo, teamRepo)
	standingsSvc := standings.NewService(teamRepo, grpRepo, resRepo, logger)
	postSvc := post.NewService(postRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators()
	user.InitValidators()

	// =========================================================================
	// Start Scheduler
	//
	// flips scheduled posts to published once their publish time passes

	scheduler := cron.New()
	if _, err = scheduler.AddFunc("* * * * *", func() {
		n, pErr := postSvc.PublishDue(time.Now())
		if pErr != nil {
			logger.Error(fmt.Sprintf("publishing due posts: %v", pErr), pErr)
			return
		}
		if n > 0 {
			logger.Info(fmt.Sprintf("published %d due post(s)", n))
		}
	}); err != nil {
		logger.Fatal(fmt.Sprintf("setting up scheduler: %v", err), err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if dErr := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); dErr != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", dErr), dErr)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(conf.Server.Address, echoapi.ServerDeps{
		Logger:       logger,
		UserSvc:      usrSvc,
		TeamSvc:      teamSvc,
		GroupSvc:     grpSvc,
		ResultSvc:    resSvc,
		StandingsSvc: standingsSvc,
		PostSvc:      postSvc,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, conf.Database.Engine), nil
}
