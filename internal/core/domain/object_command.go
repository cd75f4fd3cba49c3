package domain

import "path"

// ObjectPath returns the path of a class collection, or of one object when objectID is set.
func ObjectPath(className, objectID string) string {
	if objectID == "" {
		return path.Join(ClassesSegment, className)
	}
	return path.Join(ClassesSegment, className, objectID)
}

// NewCreateObjectCommand creates an object of the given class.
// localID identifies the object until the server assigns it an id.
func NewCreateObjectCommand(className string, parameters map[string]any, sessionToken, localID string) *Command {
	c := NewCommand(ObjectPath(className, ""), MethodPost, parameters, sessionToken)
	c.LocalID = localID
	return c
}

// NewUpdateObjectCommand updates an existing object.
func NewUpdateObjectCommand(className, objectID string, parameters map[string]any, sessionToken string) *Command {
	return NewCommand(ObjectPath(className, objectID), MethodPut, parameters, sessionToken)
}

// NewDeleteObjectCommand deletes an object. When the object has no server id yet,
// objectID is empty and localID names the object instead.
func NewDeleteObjectCommand(className, objectID, sessionToken, localID string) *Command {
	c := NewCommand(ObjectPath(className, objectID), MethodDelete, nil, sessionToken)
	if objectID == "" {
		c.LocalID = localID
	}
	return c
}

// NewFetchObjectCommand fetches an object by server id.
func NewFetchObjectCommand(className, objectID, sessionToken string) *Command {
	return NewCommand(ObjectPath(className, objectID), MethodGet, nil, sessionToken)
}
