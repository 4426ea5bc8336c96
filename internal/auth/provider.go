package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrSignInRejected is returned when the provider refuses the credentials
	// or does not issue a token.
	ErrSignInRejected = errors.New("sign in rejected")
	// ErrConfirmationRejected is returned for a wrong or expired confirmation code.
	ErrConfirmationRejected = errors.New("confirmation code rejected")
)

// CognitoAPI is the subset of the Cognito client used here.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
}

// IdentityProvider issues and confirms credentials against a user pool client.
type IdentityProvider struct {
	client   CognitoAPI
	clientID string
}

// NewIdentityProvider creates an IdentityProvider for the app client id.
func NewIdentityProvider(client CognitoAPI, clientID string) *IdentityProvider {
	return &IdentityProvider{client: client, clientID: clientID}
}

// SignIn runs the username/password flow and returns the id token.
func (p *IdentityProvider) SignIn(ctx context.Context, username, password string) (string, error) {
	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		var notFound *types.UserNotFoundException
		var notConfirmed *types.UserNotConfirmedException
		if errors.As(err, &notAuthorized) || errors.As(err, &notFound) || errors.As(err, &notConfirmed) {
			return "", fmt.Errorf("%w: %v", ErrSignInRejected, err)
		}
		return "", fmt.Errorf("failed to initiate auth%s: %w", errorCode(err), err)
	}

	if out.AuthenticationResult == nil || aws.ToString(out.AuthenticationResult.IdToken) == "" {
		return "", ErrSignInRejected
	}
	return aws.ToString(out.AuthenticationResult.IdToken), nil
}

// ConfirmSignUp confirms a pending registration with its emailed code.
func (p *IdentityProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	_, err := p.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		var mismatch *types.CodeMismatchException
		var expired *types.ExpiredCodeException
		if errors.As(err, &mismatch) || errors.As(err, &expired) {
			return fmt.Errorf("%w: %v", ErrConfirmationRejected, err)
		}
		return fmt.Errorf("failed to confirm sign up%s: %w", errorCode(err), err)
	}
	return nil
}

// errorCode formats the service error code, if err carries one.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return " (" + apiErr.ErrorCode() + ")"
	}
	return ""
}
