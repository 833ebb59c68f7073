package sqlinline

const QWorkerClaimJob = `--sql 6d2e8f41-0b9a-4c57-a3d8-72f1e4b9c065
with next_job as (
    select id
    from creative_jobs
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update creative_jobs
    set status = 'RUNNING', updated_at = now()
    where id in (select id from next_job)
    returning id, strategy_json, product_key
)
select * from updated;
`
