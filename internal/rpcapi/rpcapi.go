// Package rpcapi describes the gRPC user service shared by server and client.
// Messages are google.protobuf.Struct values whose fields mirror the HTTP
// JSON bodies, so the service needs no generated code.
package rpcapi

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "userauth.UserService"

const (
	MethodRegister   = "Register"
	MethodLogin      = "Login"
	MethodListUsers  = "ListUsers"
	MethodGetUser    = "GetUser"
	MethodUpdateUser = "UpdateUser"
	MethodDeleteUser = "DeleteUser"
)

// AuthorizationKey is the metadata key carrying "Bearer <token>".
const AuthorizationKey = "authorization"

// FullMethod returns the wire name of a method, e.g. "/userauth.UserService/Login".
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type IDRequest struct {
	ID int64 `json:"id"`
}

type UpdateRequest struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type ListResponse struct {
	Users []User `json:"users"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ToStruct converts any JSON-encodable value into a Struct. nil yields an
// empty Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, err
	}
	return st, nil
}

// FromStruct decodes st into v using v's JSON tags.
func FromStruct(st *structpb.Struct, v any) error {
	b, err := protojson.Marshal(st)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
