// Package firestore implements store.CollectionStore on Cloud Firestore.
//
// Each user has one document, user/{userId}, whose flashcards field is the
// collection index: an array of {name} entries in save order. The cards of a
// collection are documents in the subcollection named after it,
// user/{userId}/{collectionName}/{cardId}, holding {front, back, position}.
//
// The client honors FIRESTORE_EMULATOR_HOST, which the integration tests use.
package firestore
