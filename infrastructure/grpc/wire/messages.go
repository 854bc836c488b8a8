package wire

import (
	"fmt"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/errors"

	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names of the request and response messages.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "displayName"
	FieldPhotoURL    = "photoURL"
	FieldUID         = "uid"
	FieldUser        = "user"
	FieldToken       = "token"
	FieldCollection  = "collection"
	FieldID          = "id"
	FieldData        = "data"
	FieldFilters     = "filters"
	FieldField       = "field"
	FieldValue       = "value"
	FieldDocument    = "document"
	FieldDocuments   = "documents"
)

func String(in *structpb.Struct, field string) string {
	return in.GetFields()[field].GetStringValue()
}

func Strings(fields map[string]string) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		out.Fields[k] = structpb.NewStringValue(v)
	}
	return out
}

func Credentials(email, password string) *structpb.Struct {
	return Strings(map[string]string{FieldEmail: email, FieldPassword: password})
}

func Profile(displayName, photoURL string) *structpb.Struct {
	return Strings(map[string]string{FieldDisplayName: displayName, FieldPhotoURL: photoURL})
}

func userValue(user contract.AuthUser) *structpb.Value {
	return structpb.NewStructValue(Strings(map[string]string{
		FieldUID:         user.UID,
		FieldEmail:       user.Email,
		FieldDisplayName: user.DisplayName,
		FieldPhotoURL:    user.PhotoURL,
	}))
}

// Session is the answer of SignUp, SignIn, Resolve and UpdateProfile.
// The token is only set by SignUp and SignIn.
func Session(user contract.AuthUser, token string) *structpb.Struct {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{FieldUser: userValue(user)}}
	if token != "" {
		out.Fields[FieldToken] = structpb.NewStringValue(token)
	}
	return out
}

func ReadSession(in *structpb.Struct) (contract.AuthUser, string, error) {
	user := in.GetFields()[FieldUser].GetStructValue()
	if user == nil || String(user, FieldUID) == "" {
		return contract.AuthUser{}, "", fmt.Errorf("%w: session without user", errors.ErrInvalidDocument)
	}
	return contract.AuthUser{
		UID:         String(user, FieldUID),
		Email:       String(user, FieldEmail),
		DisplayName: String(user, FieldDisplayName),
		PhotoURL:    String(user, FieldPhotoURL),
	}, String(in, FieldToken), nil
}

// Write is the request of AddDocument (empty id) and SetDocument.
func Write(collection, id string, data map[string]any) (*structpb.Struct, error) {
	st, err := codec.ToStruct(data)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldCollection: structpb.NewStringValue(collection),
		FieldID:         structpb.NewStringValue(id),
		FieldData:       structpb.NewStructValue(st),
	}}, nil
}

func ReadWrite(in *structpb.Struct) (collection, id string, data map[string]any) {
	return String(in, FieldCollection), String(in, FieldID),
		codec.FromStruct(in.GetFields()[FieldData].GetStructValue())
}

func Ref(collection, id string) *structpb.Struct {
	return Strings(map[string]string{FieldCollection: collection, FieldID: id})
}

func Query(q contract.Query) (*structpb.Struct, error) {
	filters := make([]*structpb.Value, 0, len(q.Filters))
	for _, f := range q.Filters {
		v, err := codec.ToValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", f.Field, err)
		}
		filters = append(filters, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldField: structpb.NewStringValue(f.Field),
			FieldValue: v,
		}}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldCollection: structpb.NewStringValue(q.Collection),
		FieldFilters:    structpb.NewListValue(&structpb.ListValue{Values: filters}),
	}}, nil
}

func ReadQuery(in *structpb.Struct) contract.Query {
	values := in.GetFields()[FieldFilters].GetListValue().GetValues()
	filters := lo.Map(values, func(v *structpb.Value, _ int) contract.Filter {
		f := v.GetStructValue()
		return contract.Filter{Field: String(f, FieldField), Value: codec.FromValue(f.GetFields()[FieldValue])}
	})
	if len(filters) == 0 {
		filters = nil
	}
	return contract.Query{Collection: String(in, FieldCollection), Filters: filters}
}

func documentValue(doc contract.Document) (*structpb.Value, error) {
	data, err := codec.ToStruct(doc.Data)
	if err != nil {
		return nil, err
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:   structpb.NewStringValue(doc.ID),
		FieldData: structpb.NewStructValue(data),
	}}), nil
}

func readDocument(v *structpb.Value) contract.Document {
	st := v.GetStructValue()
	return contract.Document{
		ID:   String(st, FieldID),
		Data: codec.FromStruct(st.GetFields()[FieldData].GetStructValue()),
	}
}

func Document(doc contract.Document) (*structpb.Struct, error) {
	v, err := documentValue(doc)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{FieldDocument: v}}, nil
}

func ReadDocument(in *structpb.Struct) contract.Document {
	return readDocument(in.GetFields()[FieldDocument])
}

// Documents is the answer of FindDocuments and each Watch snapshot.
func Documents(docs []contract.Document) (*structpb.Struct, error) {
	values := make([]*structpb.Value, 0, len(docs))
	for _, doc := range docs {
		v, err := documentValue(doc)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldDocuments: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func ReadDocuments(in *structpb.Struct) []contract.Document {
	return lo.Map(in.GetFields()[FieldDocuments].GetListValue().GetValues(),
		func(v *structpb.Value, _ int) contract.Document {
			return readDocument(v)
		})
}
