package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// Google OAuth Configuration
	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URI  string
	FRONTEND_CALLBACK    string
	// AI Generation Configuration
	AI_MODEL_NAME        string
	AI_MODEL_TEMPERATURE float64
	// Drive folder that receives submitted PDFs
	SUBMISSION_FOLDER string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	temperature, err := strconv.ParseFloat(os.Getenv("AI_MODEL_TEMPERATURE"), 64)
	if err != nil {
		temperature = 0.7
	}

	modelName := os.Getenv("AI_MODEL_NAME")
	if modelName == "" {
		modelName = "gpt-3.5-turbo"
	}

	redirectURI := os.Getenv("GOOGLE_REDIRECT_URI")
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/api/v1/accounts/google/login/callback/"
	}

	frontendCallback := os.Getenv("FRONTEND_CALLBACK")
	if frontendCallback == "" {
		frontendCallback = "http://localhost:3000/auth/google/callback"
	}

	submissionFolder := os.Getenv("SUBMISSION_FOLDER")
	if submissionFolder == "" {
		submissionFolder = "OpenCoder Submissions"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Google OAuth
		GOOGLE_CLIENT_ID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GOOGLE_CLIENT_SECRET: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GOOGLE_REDIRECT_URI:  redirectURI,
		FRONTEND_CALLBACK:    frontendCallback,
		// AI Generation
		AI_MODEL_NAME:        modelName,
		AI_MODEL_TEMPERATURE: temperature,
		// Drive
		SUBMISSION_FOLDER: submissionFolder,
	}

	return envVariables, nil
}

// GoogleScopes are the OAuth scopes requested when linking a Google account.
// Classroom sync needs course/coursework read access plus announcements, and
// submission needs Drive write access.
func GoogleScopes() []string {
	if custom := os.Getenv("GOOGLE_SCOPES"); custom != "" {
		return strings.Split(custom, ",")
	}
	return []string{
		"https://www.googleapis.com/auth/classroom.courses.readonly",
		"https://www.googleapis.com/auth/classroom.coursework.me",
		"https://www.googleapis.com/auth/classroom.coursework.students",
		"https://www.googleapis.com/auth/classroom.announcements",
		"https://www.googleapis.com/auth/drive",
		"https://www.googleapis.com/auth/drive.file",
	}
}
