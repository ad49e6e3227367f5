package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app, auth client, and storage client
type App struct {
	FirebaseApp   *firebase.App
	AuthClient    *auth.Client
	StorageClient *storage.Client
	Bucket        string
}

// InitFirebase initializes the Firebase application, authentication client,
// and the default storage bucket used for avatar uploads.
func InitFirebase(ctx context.Context, credentialsPath, bucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	log.Println("Firebase app, auth, and storage clients initialized successfully!")
	return &App{
		FirebaseApp:   firebaseApp,
		AuthClient:    authClient,
		StorageClient: storageClient,
		Bucket:        bucket,
	}, nil
}

// UploadObject streams the reader into the default bucket under objectName
// and returns the public download URL.
func (a *App) UploadObject(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	bucket, err := a.StorageClient.DefaultBucket()
	if err != nil {
		return "", fmt.Errorf("error resolving default bucket: %w", err)
	}

	w := bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("error uploading object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizing upload of %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.Bucket, url.PathEscape(objectName)), nil
}
