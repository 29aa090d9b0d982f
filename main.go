package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/domain"
	"foodgram/internal/utils"
	"foodgram/pkg/catalog"
	"foodgram/pkg/jwt"
	"foodgram/pkg/user"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	seed := flag.String("seed", "", "load ingredients from a name,measurement_unit CSV file and exit")
	createUser := flag.Bool("create-user", false, "create a user from -email/-username/-first-name/-last-name/-password, print a token and exit")
	email := flag.String("email", "", "email for -create-user")
	username := flag.String("username", "", "username for -create-user")
	firstName := flag.String("first-name", "", "first name for -create-user")
	lastName := flag.String("last-name", "", "last name for -create-user")
	password := flag.String("password", "", "password for -create-user")
	flag.Parse()

	utils.LoadConfig()
	utils.InitLogger()
	utils.InitValidator()

	db, err := config.ConnectDB()
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to connect to database")
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			utils.Log.WithError(err).Error("failed to close database")
		}
	}()

	ctx := context.Background()

	switch {
	case *migrate:
		if err := migration.Migrate(db); err != nil {
			utils.Log.WithError(err).Fatal("migration failed")
		}
		return

	case *seed != "":
		file, err := os.Open(*seed)
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to open ingredients file")
		}
		defer file.Close()

		n, err := catalog.NewCatalogService(catalog.NewCatalogRepository(db)).LoadIngredients(ctx, file)
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to load ingredients")
		}
		fmt.Printf("loaded %d ingredients\n", n)
		return

	case *createUser:
		req := domain.CreateUserRequest{
			Email:     *email,
			Username:  *username,
			FirstName: *firstName,
			LastName:  *lastName,
			Password:  *password,
		}
		if err := utils.Validate.Struct(req); err != nil {
			utils.Log.WithError(err).Fatal("invalid user")
		}

		created, err := user.NewUserService(user.NewUserRepository(db)).CreateUser(ctx, req)
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to create user")
		}
		token, err := jwt.NewJWTService().GenerateTokenUser(created.ID)
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to issue token")
		}
		fmt.Printf("user %s created\ntoken: %s\n", created.ID, token)
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to build app")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		utils.Log.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	port := utils.GetConfig("PORT")
	utils.Log.WithField("port", port).Info("starting server")
	if err := app.Listen(":" + port); err != nil {
		utils.Log.WithError(err).Fatal("server stopped")
	}
}
