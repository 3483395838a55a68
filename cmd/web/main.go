package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"senjewels/internal/mail"
	"senjewels/internal/models"
	"senjewels/internal/payment"
	"senjewels/internal/receipt"
	"senjewels/internal/storage"
)

type application struct {
	errorLog  *log.Logger
	infoLog   *log.Logger
	session   *scs.SessionManager
	DB        *models.MongoDB
	payments  *payment.Client
	mailer    *mail.Mailer
	uploads   *storage.Uploader
	receipts  *receipt.Builder
	mailQueue chan mail.Message
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	addr := flag.String("addr", ":4000", "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		errorLog.Fatal("MONGO_URI environment variable not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		errorLog.Fatal(err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("Connected to database!")

	uploads, err := storage.New(
		os.Getenv("S3_ENDPOINT"),
		os.Getenv("S3_ACCESS_KEY"),
		os.Getenv("S3_SECRET_KEY"),
		os.Getenv("S3_BUCKET"),
		true,
	)
	if err != nil {
		errorLog.Fatal(err)
	}

	session := scs.New()
	session.Lifetime = 12 * time.Hour

	app := &application{
		errorLog:  errorLog,
		infoLog:   infoLog,
		session:   session,
		DB:        models.NewMongoDB(client.Database("senjewels")),
		payments:  payment.New(os.Getenv("STRIPE_SECRET_KEY"), os.Getenv("BASE_URL")),
		mailer:    mail.New(os.Getenv("RESEND_API_KEY"), os.Getenv("MAIL_FROM"), os.Getenv("MAIL_REPLY_TO")),
		uploads:   uploads,
		receipts:  receipt.New(os.Getenv("LOGO_URL")),
		mailQueue: make(chan mail.Message, 64),
	}

	go app.mailWorker()

	srv := &http.Server{
		Addr:     *addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("Starting Sen Jewels on %s", *addr)
	err = srv.ListenAndServe()
	errorLog.Fatal(err)
}
