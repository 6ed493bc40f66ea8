/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mongodb

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scoir/diploma/pkg/datastore"
)

const defaultPageSize = 10

type Config struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// Provider represents a Mongo DB implementation of the storage.Provider interface
type Provider struct {
	client *mongo.Client
	db     *mongo.Database
	stores map[string]*mongoDBStore
	sync.RWMutex
}

type mongoDBStore struct {
	runs         *mongo.Collection
	attestations *mongo.Collection
	webhooks     *mongo.Collection
}

// NewProvider instantiates Provider
func NewProvider(config *Config) (*Provider, error) {
	if config == nil {
		return nil, errors.New("config missing")
	}

	tM := reflect.TypeOf(bson.M{})
	reg := bson.NewRegistryBuilder().RegisterTypeMapEntry(bsontype.EmbeddedDocument, tM).Build()
	clientOpts := options.Client().SetRegistry(reg).ApplyURI(config.URL)

	mongoClient, err := mongo.NewClient(clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "error creating mongo client")
	}

	err = mongoClient.Connect(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to mongo")
	}

	p := &Provider{
		client: mongoClient,
		db:     mongoClient.Database(config.Database),
		stores: map[string]*mongoDBStore{}}

	return p, nil
}

// OpenStore returns the store for the given name space. Each model gets its own collection.
func (p *Provider) OpenStore(name string) (datastore.Store, error) {
	p.Lock()
	defer p.Unlock()

	if name == "" {
		return nil, errors.New("store name is required")
	}

	if store, ok := p.stores[name]; ok {
		return store, nil
	}

	store := &mongoDBStore{
		runs:         p.db.Collection(collection(name, datastore.RunC)),
		attestations: p.db.Collection(collection(name, datastore.AttestationC)),
		webhooks:     p.db.Collection(collection(name, datastore.WebhookC)),
	}

	p.stores[name] = store

	return store, nil
}

// Close closes the provider.
func (p *Provider) Close() error {
	p.Lock()
	defer p.Unlock()

	p.stores = make(map[string]*mongoDBStore)

	return p.client.Disconnect(context.Background())
}

// CloseStore forgets a previously opened store
func (p *Provider) CloseStore(name string) error {
	p.Lock()
	defer p.Unlock()

	delete(p.stores, name)

	return nil
}

func collection(name, model string) string {
	return fmt.Sprintf("%s_%s", name, model)
}

func page(start, size int) *options.FindOptions {
	if size <= 0 {
		size = defaultPageSize
	}

	return options.Find().SetSkip(int64(start)).SetLimit(int64(size))
}

func notFound(err error, msg string) error {
	if err == mongo.ErrNoDocuments {
		return errors.Wrap(datastore.ErrNotFound, msg)
	}

	return errors.Wrap(err, msg)
}

func (r *mongoDBStore) InsertRun(run *datastore.Run) (string, error) {
	_, err := r.runs.InsertOne(context.Background(), run)
	if err != nil {
		return "", errors.Wrap(err, "unable to insert run")
	}

	return run.ID, nil
}

func (r *mongoDBStore) UpdateRun(run *datastore.Run) error {
	res, err := r.runs.UpdateOne(context.Background(), bson.M{"id": run.ID}, bson.M{"$set": run})
	if err != nil {
		return errors.Wrap(err, "unable to update run")
	}

	if res.MatchedCount == 0 {
		return errors.Wrapf(datastore.ErrNotFound, "run %s", run.ID)
	}

	return nil
}

func (r *mongoDBStore) GetRun(id string) (*datastore.Run, error) {
	run := &datastore.Run{}

	err := r.runs.FindOne(context.Background(), bson.M{"id": id}).Decode(run)
	if err != nil {
		return nil, notFound(err, "unable to load run")
	}

	return run, nil
}

func (r *mongoDBStore) ListRuns(c *datastore.RunCriteria) (*datastore.RunList, error) {
	if c == nil {
		c = &datastore.RunCriteria{}
	}

	bc := bson.M{}
	if c.Status != "" {
		bc["status"] = c.Status
	}

	opts := page(c.Start, c.PageSize).SetSort(bson.M{"startedat": -1})

	ctx := context.Background()
	count, err := r.runs.CountDocuments(ctx, bc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to count runs")
	}

	results, err := r.runs.Find(ctx, bc, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error trying to find runs")
	}

	out := datastore.RunList{
		Count: int(count),
		Runs:  []*datastore.Run{},
	}

	err = results.All(ctx, &out.Runs)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode runs")
	}

	return &out, nil
}

func (r *mongoDBStore) InsertAttestations(a []*datastore.IssuedAttestation) error {
	if len(a) == 0 {
		return nil
	}

	docs := make([]interface{}, len(a))
	for i := range a {
		docs[i] = a[i]
	}

	_, err := r.attestations.InsertMany(context.Background(), docs)
	if err != nil {
		return errors.Wrap(err, "unable to insert attestations")
	}

	return nil
}

func (r *mongoDBStore) GetAttestation(uid string) (*datastore.IssuedAttestation, error) {
	out := &datastore.IssuedAttestation{}

	err := r.attestations.FindOne(context.Background(), bson.M{"uid": uid}).Decode(out)
	if err != nil {
		return nil, notFound(err, "unable to load attestation")
	}

	return out, nil
}

func (r *mongoDBStore) ListAttestations(c *datastore.AttestationCriteria) (*datastore.AttestationList, error) {
	if c == nil {
		c = &datastore.AttestationCriteria{}
	}

	bc := bson.M{}
	if c.RunID != "" {
		bc["runid"] = c.RunID
	}
	if c.Recipient != "" {
		bc["recipient"] = c.Recipient
	}

	opts := page(c.Start, c.PageSize).SetSort(bson.M{"index": 1})

	ctx := context.Background()
	count, err := r.attestations.CountDocuments(ctx, bc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to count attestations")
	}

	results, err := r.attestations.Find(ctx, bc, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error trying to find attestations")
	}

	out := datastore.AttestationList{
		Count:        int(count),
		Attestations: []*datastore.IssuedAttestation{},
	}

	err = results.All(ctx, &out.Attestations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode attestations")
	}

	return &out, nil
}

func (r *mongoDBStore) InsertWebhook(w *datastore.Webhook) error {
	_, err := r.webhooks.InsertOne(context.Background(), w)
	if err != nil {
		return errors.Wrap(err, "unable to insert webhook")
	}

	return nil
}

func (r *mongoDBStore) ListWebhooks(topic string) ([]*datastore.Webhook, error) {
	ctx := context.Background()
	results, err := r.webhooks.Find(ctx, bson.M{"type": topic})
	if err != nil {
		return nil, errors.Wrap(err, "error trying to find webhooks")
	}

	out := []*datastore.Webhook{}
	err = results.All(ctx, &out)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode webhooks")
	}

	return out, nil
}

func (r *mongoDBStore) DeleteWebhook(topic string) error {
	_, err := r.webhooks.DeleteMany(context.Background(), bson.M{"type": topic})
	if err != nil {
		return errors.Wrap(err, "unable to delete webhooks")
	}

	return nil
}
