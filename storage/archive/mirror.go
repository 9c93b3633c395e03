// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package archive implements an optional write-behind mirror that
// asynchronously replicates committed objects to an S3-compatible
// bucket, generalized from the teacher's modules/oss.Bucket (the
// resource-path-keyed Put/Stat/Delete surface pkg/serve/odb.ODB drives
// for large-object storage) onto github.com/aws/aws-sdk-go-v2/service/s3
// instead of the teacher's Aliyun OSS HTTP client. A Mirror wraps a
// storage.Store; every successful Put is queued for upload by a small
// worker pool, mirroring the channel/worker shape of
// modules/oss/upload.go's multipart upload fan-out. Replication never
// blocks or fails the caller: it is durability insurance on top of the
// content-addressed guarantee the wrapped Store already provides, not
// part of that guarantee (§10.4).
package archive

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/gitnext/core/internal/xlog"
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

// Options configures a Mirror's target bucket and upload concurrency.
type Options struct {
	Bucket          string
	Region          string
	Prefix          string // key prefix, e.g. "objects/"
	AccessKeyID     string // optional static credentials; empty uses the SDK's default chain
	SecretAccessKey string
	Workers         int // default 4
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 4
}

// uploadJob is one queued replication task.
type uploadJob struct {
	id  object.ID
	raw []byte
}

// uploader is the narrow slice of *s3.Client a Mirror actually calls,
// split out so tests can substitute a fake instead of talking to S3.
type uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Mirror decorates a storage.Store with asynchronous S3 replication of
// every object successfully Put (directly or via a committed
// transaction).
type Mirror struct {
	storage.Store
	client uploader
	bucket string
	prefix string

	queue chan uploadJob
	wg    sync.WaitGroup
	log   *logrus.Entry
}

// New wraps store with an S3 mirror built from opts. The returned Mirror
// must be closed with Close to drain in-flight uploads.
func New(ctx context.Context, store storage.Store, opts Options) (*Mirror, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}
	return newMirror(store, s3.NewFromConfig(cfg), opts), nil
}

func newMirror(store storage.Store, client uploader, opts Options) *Mirror {
	m := &Mirror{
		Store:  store,
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		queue:  make(chan uploadJob, 256),
		log:    xlog.For("storage/archive"),
	}
	for i := 0; i < opts.workers(); i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m
}

// keyFor mirrors the teacher's ossJoin sharding scheme (pkg/serve/odb.ossJoin):
// a short hex prefix keeps any one S3 "directory" from growing unbounded.
func (m *Mirror) keyFor(id object.ID) string {
	hex := id.String()
	return fmt.Sprintf("%s%s/%s/%s", m.prefix, hex[0:2], hex[2:4], hex)
}

func (m *Mirror) worker() {
	defer m.wg.Done()
	for job := range m.queue {
		key := m.keyFor(job.id)
		_, err := m.client.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(job.raw),
		})
		if err != nil {
			m.log.WithError(err).WithField("id", job.id).Error("archive upload failed")
		}
	}
}

func (m *Mirror) enqueue(id object.ID, o object.Object) {
	raw, err := object.Encode(o)
	if err != nil {
		m.log.WithError(err).WithField("id", id).Error("archive encode failed")
		return
	}
	select {
	case m.queue <- uploadJob{id: id, raw: raw}:
	default:
		m.log.WithField("id", id).Error("archive queue full, dropping replication")
	}
}

// Put writes through to the wrapped Store, then queues id for background
// replication. A replication failure is logged and never returned here.
func (m *Mirror) Put(id object.ID, o object.Object) error {
	if err := m.Store.Put(id, o); err != nil {
		return err
	}
	m.enqueue(id, o)
	return nil
}

// BeginTransaction wraps the underlying transaction so every object put
// through it is queued for replication once (and only if) it commits.
func (m *Mirror) BeginTransaction() (storage.Transaction, error) {
	txn, err := m.Store.BeginTransaction()
	if err != nil {
		return nil, err
	}
	return &mirrorTransaction{Transaction: txn, mirror: m}, nil
}

type mirrorTransaction struct {
	storage.Transaction
	mirror *Mirror
	staged []uploadJob
}

func (t *mirrorTransaction) Put(id object.ID, o object.Object) error {
	if err := t.Transaction.Put(id, o); err != nil {
		return err
	}
	raw, err := object.Encode(o)
	if err != nil {
		// The underlying Put already validated o; an encode failure here
		// would mean object.Encode and object.ComputeID disagree, which
		// Put would already have caught. Log and skip replication rather
		// than fail an otherwise-successful write.
		t.mirror.log.WithError(err).WithField("id", id).Error("archive encode failed")
		return nil
	}
	t.staged = append(t.staged, uploadJob{id: id, raw: raw})
	return nil
}

func (t *mirrorTransaction) Commit() error {
	if err := t.Transaction.Commit(); err != nil {
		return err
	}
	for _, job := range t.staged {
		select {
		case t.mirror.queue <- job:
		default:
			t.mirror.log.WithField("id", job.id).Error("archive queue full, dropping replication")
		}
	}
	return nil
}

// Close stops accepting new replication jobs and waits for queued
// uploads to finish.
func (m *Mirror) Close() error {
	close(m.queue)
	m.wg.Wait()
	return m.Store.Close()
}

var (
	_ storage.Store       = (*Mirror)(nil)
	_ storage.Transaction = (*mirrorTransaction)(nil)
	_ refs.Lookup         = (*Mirror)(nil)
)
