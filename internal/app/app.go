// Package app wires configuration, AWS clients, stores and use cases into
// the handlers the binaries serve.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/pricofy/games-api/internal/auth"
	"github.com/pricofy/games-api/internal/config"
	"github.com/pricofy/games-api/internal/guard"
	"github.com/pricofy/games-api/internal/handler"
	"github.com/pricofy/games-api/internal/memo"
	"github.com/pricofy/games-api/internal/service"
	"github.com/pricofy/games-api/internal/store"
	"github.com/pricofy/games-api/internal/store/dynamo"
	"github.com/pricofy/games-api/internal/translator"
)

// Store is everything the use cases persist through.
type Store interface {
	store.UserStore
	store.GameStore
	store.TranslationStore
	store.Seeder
}

// Clients are the AWS service clients, built once per process.
type Clients struct {
	DynamoDB  *dynamodb.Client
	Translate *translate.Client
	Cognito   *cip.Client
	Lambda    *lambdasdk.Client
}

// LoadAWS loads the default AWS configuration for the configured region.
func LoadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// NewClients builds every AWS client from one loaded configuration.
func NewClients(awsCfg aws.Config) *Clients {
	return &Clients{
		DynamoDB:  dynamodb.NewFromConfig(awsCfg),
		Translate: translate.NewFromConfig(awsCfg),
		Cognito:   cip.NewFromConfig(awsCfg),
		Lambda:    lambdasdk.NewFromConfig(awsCfg),
	}
}

// NewDynamoStore returns the DynamoDB-backed store for the configured tables.
func NewDynamoStore(api dynamo.API, cfg *config.Config) *dynamo.Store {
	return dynamo.New(api, dynamo.Tables{
		Games:        cfg.GameTable,
		Users:        cfg.UserTable,
		Translations: cfg.TranslationTable,
	})
}

// NewVerifier builds the token verifier for the configured user pool.
func NewVerifier(cfg *config.Config) *auth.Verifier {
	return auth.NewVerifier(cfg.Region, cfg.UserPoolID, auth.WithFetchAttempts(cfg.JWKSFetchAttempts))
}

// NewHandler assembles the use cases over st and returns the API handler.
func NewHandler(cfg *config.Config, st Store, tr translator.TranslateAPI, cognito auth.CognitoAPI, v handler.TokenVerifier) *handler.Handler {
	g := guard.New(st, st)
	return handler.New(handler.Deps{
		Verifier:     v,
		Identity:     auth.NewIdentityProvider(cognito, cfg.ClientID),
		Profiles:     service.NewProfileService(st, g),
		Games:        service.NewGameService(st, g),
		Translations: memo.New(st, st, translator.NewClient(tr)),
		CookieMaxAge: cfg.CookieMaxAge,
	})
}
