package sqlinline

const QEnqueueCreativeJob = `--sql 8b3f1d72-5a0c-4e6d-9f21-c4b7a9e05d13
insert into creative_jobs(
  id,
  task_type,
  status,
  strategy_json,
  product_key
)
values (
  gen_random_uuid(),
  'CREATIVE_GEN',
  'QUEUED',
  $1::jsonb,
  $2::text
)
returning id;
`
